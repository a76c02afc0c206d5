package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes used to classify token and identity errors
const (
	TextCodeTokenMalformed        = "TOKEN_MALFORMED"
	TextCodeTokenSignatureInvalid = "TOKEN_SIGNATURE_INVALID"
	TextCodeTokenExpired          = "TOKEN_EXPIRED"
	TextCodeTokenNotYetValid      = "TOKEN_NOT_YET_VALID"
	TextCodeTokenEncoding         = "TOKEN_ENCODING"
	TextCodeClaimsInvalid         = "CLAIMS_INVALID"
	TextCodeIdentityInvalid       = "IDENTITY_INVALID"
	TextCodeIdentityNotFound      = "IDENTITY_NOT_FOUND"
	TextCodeConfigInvalid         = "CONFIG_INVALID"
	TextCodeIdentityLookup        = "IDENTITY_LOOKUP_FAILED"
	TextCodeActivitySink          = "ACTIVITY_SINK_FAILED"
)

// ErrMalformedToken is returned when the token structure can not be parsed
var ErrMalformedToken = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrInvalidSignature is returned when the signature does not match or the
// token was signed with an algorithm other than HS256
var ErrInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenSignatureInvalid)

// ErrTokenExpired is returned when now >= exp
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenNotYetValid is returned when now < nbf
var ErrTokenNotYetValid = errors.New("token is not valid yet", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenNotYetValid)

// ErrEncoding signals a signing misconfiguration, e.g. an empty secret
var ErrEncoding = errors.New("unable to encode token", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeTokenEncoding)

// ErrInvalidClaims is returned when a claim set breaks its time invariants
var ErrInvalidClaims = errors.New("claims are invalid", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeClaimsInvalid)

// ErrInvalidIdentity is returned when an identity store hands back an object
// that does not honor the Identity contract
var ErrInvalidIdentity = errors.New("identity store returned an invalid identity", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeIdentityInvalid)

// ErrIdentityNotFound is the error stores return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrIdentityLookup wraps failures of the identity store itself
var ErrIdentityLookup = errors.New("identity lookup failed", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode(TextCodeIdentityLookup)

// ErrInvalidConfig is returned when Options fail validation
var ErrInvalidConfig = errors.New("invalid auth configuration", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeConfigInvalid)

// absorbedTextCodes are rejections that mean "no valid auth". They never reach
// the end user as distinct errors.
var absorbedTextCodes = map[string]bool{
	TextCodeTokenMalformed:        true,
	TextCodeTokenSignatureInvalid: true,
	TextCodeTokenExpired:          true,
	TextCodeTokenNotYetValid:      true,
}

// IsAbsorbedError reports whether err is a token rejection that should be
// treated as the absence of a cookie. Every other error must propagate.
func IsAbsorbedError(err error) bool {
	if err == nil {
		return false
	}
	return absorbedTextCodes[textCode(err)]
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if textCode(err) == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if textCode(err) == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// IsInvalidSignatureError will check for signature and algorithm mismatches
func IsInvalidSignatureError(err error) bool {
	return err != nil && textCode(err) == TextCodeTokenSignatureInvalid
}

// IsNotYetValidError will check for tokens used before nbf
func IsNotYetValidError(err error) bool {
	return err != nil && textCode(err) == TextCodeTokenNotYetValid
}

// IsEncodingError will check for signing misconfiguration errors
func IsEncodingError(err error) bool {
	return err != nil && textCode(err) == TextCodeTokenEncoding
}

// IsInvalidIdentityError will check for identity contract violations
func IsInvalidIdentityError(err error) bool {
	return err != nil && textCode(err) == TextCodeIdentityInvalid
}

// IsIdentityNotFoundError will check for missing identities
func IsIdentityNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrIdentityNotFound) || textCode(err) == TextCodeIdentityNotFound
}

func textCode(err error) string {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

func wrapError(err error, sentinel *errors.Error, message string) *errors.Error {
	return errors.Wrap(err, sentinel.Category, message).
		WithCode(sentinel.Code).
		WithTextCode(sentinel.TextCode)
}

func wrapLookupError(err error) error {
	return wrapError(err, ErrIdentityLookup, ErrIdentityLookup.Message)
}
