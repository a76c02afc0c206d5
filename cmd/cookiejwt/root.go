package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg    *Config
	logger *slog.Logger
	v      = viper.New()
)

var rootCmd = &cobra.Command{
	Use:           "cookiejwt",
	Short:         "Identity cookie token tool",
	Long:          `cookiejwt issues, inspects and renews HS256 identity cookie tokens.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := loadConfig(v, file)
		if err != nil {
			return err
		}
		cfg = c
		logger = newLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ./cookiejwt.yaml)")
	rootCmd.PersistentFlags().String("signing-key", "", "shared HS256 secret")
	rootCmd.PersistentFlags().String("log-level", "", "DEBUG, INFO, WARN or ERROR")
	_ = v.BindPFlag("auth.signing_key", rootCmd.PersistentFlags().Lookup("signing-key"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("cookiejwt error", "error", err)
		os.Exit(1)
	}
}
