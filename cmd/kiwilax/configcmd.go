package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KGM16/KiwiLax/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the kiwilax configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a kiwilax.yaml with the platform defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if err := config.WriteFile(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().String("path", "kiwilax.yaml", "where to write the config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
