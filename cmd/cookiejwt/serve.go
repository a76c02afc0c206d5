package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-cookie"
	"github.com/goliatone/go-auth-cookie/middleware/fiberware"
	"github.com/goliatone/go-auth-cookie/store/bunstore"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Run a demo server that logs users in with the identity cookie",
	RunE: func(cmd *cobra.Command, _ []string) error {
		seedUser, _ := cmd.Flags().GetString("seed-user")
		seedPassword, _ := cmd.Flags().GetString("seed-password")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		app, err := newDemoApp(ctx, cfg, seedUser, seedPassword)
		if err != nil {
			return err
		}

		logger.Info("starting demo server", "addr", cfg.Addr, "cookie", cfg.Auth.IdentityCookie.Name)
		return app.Listen(cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("seed-user", "", "username to create at startup")
	serveCmd.Flags().String("seed-password", "", "password for the seeded user")
	rootCmd.AddCommand(serveCmd)
}

type loginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Remember bool   `form:"remember" json:"remember"`
}

func newDemoApp(ctx context.Context, cfg *Config, seedUser, seedPassword string) (*fiber.App, error) {
	db, err := bunstore.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}

	users := bunstore.NewUsers(db)
	if err := users.CreateSchema(ctx); err != nil {
		return nil, err
	}

	if seedUser != "" {
		if _, err := users.Register(ctx, seedUser, "", seedPassword); err != nil {
			logger.Warn("seed user not created", "username", seedUser, "error", err)
		}
	}

	manager, err := auth.NewSessionManager(cfg.Auth, users)
	if err != nil {
		return nil, err
	}
	manager.WithLogger(logger).WithActivitySink(auth.ActivitySinkFunc(func(_ context.Context, event auth.ActivityEvent) error {
		logger.Info("activity", "event", event.EventType, "user", event.UserID, "ip", event.IP)
		return nil
	}))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(fiberware.New(fiberware.Config{Authenticator: manager}))

	app.Post("/login", func(c *fiber.Ctx) error {
		form := new(loginForm)
		if err := c.BodyParser(form); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid form"})
		}

		identity, err := users.VerifyIdentity(c.UserContext(), form.Username, form.Password)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}

		duration := manager.SessionDuration()
		if !form.Remember {
			duration = 0
		}

		if err := manager.Issue(fiberware.NewTransport(c), identity, duration); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": identity.ID()})
	})

	app.Get("/me", func(c *fiber.Ctx) error {
		identity, ok := fiberware.Identity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
		}

		body := fiber.Map{"id": identity.ID()}
		if u, ok := identity.(bunstore.UserIdentity); ok {
			body["username"] = u.Username()
			body["member_since"] = u.MemberSince()
		}
		return c.JSON(body)
	})

	app.Post("/logout", func(c *fiber.Ctx) error {
		manager.Logout(fiberware.NewTransport(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	return app, nil
}
