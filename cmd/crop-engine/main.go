// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the crop-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/crop-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// rootCmd is the base command for the crop-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "crop-engine",
	Short: "Score and rank crops for a farmer's land",
	Long: `crop-engine scores every crop in a catalog against a farmer's soil,
climate and market conditions, keeps the five best as a recommendation
batch and stores it in a local SQLite database.

Profiles are managed with the crops and farmer subcommands; recommend runs
the engine, latest and history read stored batches, and serve exposes the
same operations over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./crop-engine.yaml or ~/.config/crop-engine/crop-engine.yaml)")
	rootCmd.PersistentFlags().String("store-dir", "", "directory holding crop-engine.db (overrides store.dir)")
	_ = viper.BindPFlag("store.dir", rootCmd.PersistentFlags().Lookup("store-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("crop-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "crop-engine"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("CROP_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
