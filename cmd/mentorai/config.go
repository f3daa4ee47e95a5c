package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/config"
	"github.com/every-mentor/mentorai/internal/home"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write the default configuration to ~/.mentorai/config.yaml
(or the path given with --config).

API keys are referenced with ${ENV_VAR} syntax and resolved at load time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			h, err := home.New("")
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			if h.ConfigExists() && !configForce {
				return fmt.Errorf("%s already exists (use --force to overwrite)", h.ConfigPath())
			}
			path = h.ConfigPath()
		}

		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
