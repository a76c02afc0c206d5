package main

import (
	"fmt"
	"time"

	auth "github.com/goliatone/go-auth-cookie"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Sign an identity token for a subject",
	RunE: func(cmd *cobra.Command, _ []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		duration, _ := cmd.Flags().GetDuration("duration")
		if !cmd.Flags().Changed("duration") {
			duration = cfg.Auth.SessionDuration
		}

		claims := auth.NewClaims(subject, cfg.Auth.Issuer, cfg.Auth.Audience, time.Now(), duration)
		claims.ID = uuid.NewString()

		token, err := auth.NewTokenCodec().Encode(claims, secret())
		if err != nil {
			return err
		}

		logger.Debug("issued identity token", "subject", subject, "duration", duration)
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect TOKEN",
	Short: "Verify a token and print its claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ignoreTime, _ := cmd.Flags().GetBool("ignore-time")

		codec := auth.NewTokenCodec()
		decode := codec.Decode
		if ignoreTime {
			decode = codec.DecodeIgnoringTime
		}

		claims, err := decode(args[0], secret())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), print.MaybePrettyJSON(claims))
		if claims.HasExpiry() {
			fmt.Fprintf(cmd.OutOrStdout(), "session length: %s, expires in %s\n",
				claims.Duration(), time.Until(claims.Expires()).Round(time.Second))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "session cookie: no expiry")
		}
		return nil
	},
}

var renewCmd = &cobra.Command{
	Use:   "renew TOKEN",
	Short: "Re-sign a token so it expires one session length from now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec := auth.NewTokenCodec()
		decode := codec.Decode
		if cfg.Auth.RenewExpired {
			decode = codec.DecodeIgnoringTime
		}

		claims, err := decode(args[0], secret())
		if err != nil {
			return err
		}

		if !claims.HasExpiry() {
			return fmt.Errorf("token has no expiry, nothing to renew")
		}

		token, err := codec.Encode(claims.Renewed(time.Now()), secret())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func secret() []byte {
	return []byte(cfg.Auth.SigningKey)
}

func init() {
	issueCmd.Flags().String("subject", "", "subject identifier")
	issueCmd.Flags().Duration("duration", auth.DefaultSessionDuration, "session length, 0 for a session cookie")
	_ = issueCmd.MarkFlagRequired("subject")

	inspectCmd.Flags().Bool("ignore-time", false, "skip nbf and exp checks")

	rootCmd.AddCommand(issueCmd, inspectCmd, renewCmd)
}
