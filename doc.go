// Package auth provides stateless, cookie carried authentication: a shared
// secret and a small claim set are turned into an HS256 signed token that
// lives in the identity cookie instead of a server side session.
//
// Token codec:
//   - TokenCodec encodes Claims and decodes them back, rejecting malformed
//     tokens, bad signatures, any algorithm other than HS256, expired tokens
//     and tokens used before nbf. The time source is an injected Clock.
//
// Identity resolution:
//   - IdentityResolver looks the token subject up in an IdentityStore. A
//     missing subject, or an identity returned for a different id, is not an
//     error; a store that returns a nil identity or one without an id is, and
//     that error always propagates.
//
// Cookie lifecycle:
//   - CookieSessionManager issues the cookie, logs requests in from it and
//     slides its expiry on renewal. Token rejections are absorbed so the
//     request proceeds unauthenticated, the same as having no cookie at all.
//   - Transport abstracts the request/response pair; middleware/routerware
//     covers go-router, middleware/fiberware covers Fiber and HTTPTransport
//     covers plain net/http.
//
// Activity sinks:
//   - ActivitySink receives issued, login, renewed and logout events. Sink
//     errors are logged and never fail a request.
package auth
