// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the kiwilax CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KGM16/KiwiLax/internal/config"
	"github.com/KGM16/KiwiLax/internal/toolchain"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the kiwilax CLI.
var rootCmd = &cobra.Command{
	Use:   "kiwilax",
	Short: "One-command LaTeX to PDF conversion",
	Long: `kiwilax converts a single LaTeX source document into a PDF using a
locally installed TeX distribution, installing that distribution unattended
when it is absent.

The convert command runs the whole workflow: toolchain check, optional
install, one batch-mode compiler pass, byproduct cleanup, PDF verification.
The toolchain subcommands inspect or prepare the installation without
converting anything.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if needsElevation(cmd) && cfg.RequireElevation && !toolchain.Elevated() {
			return fmt.Errorf("kiwilax needs elevated privileges to manage the shared TeX installation; " +
				"re-run as administrator, or set require_elevation: false for a user-local setup")
		}
		return nil
	},
}

// needsElevation reports whether cmd may mutate the TeX installation.
// Informational commands run without privileges.
func needsElevation(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "convert", "install":
		return true
	}
	return false
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./kiwilax.yaml or ~/.config/kiwilax/kiwilax.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("kiwilax")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kiwilax"))
		}
	}

	viper.SetEnvPrefix("KIWILAX")
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig returns the effective configuration from the global viper.
func loadConfig() (config.Config, error) {
	return config.FromViper(viper.GetViper())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
