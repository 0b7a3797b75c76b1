// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the aurorax CLI, a front end for
// asynchronous searches against the AuroraX space physics API. Each
// search kind is a subcommand group: conjunctions, ephemeris, and
// data-products submit queries, poll request status, and retrieve
// result records; sources lists the data source catalogue and history
// tracks past submissions locally.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aurorax-space/go-aurorax/internal/secrets"
	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// secretsAPIKey holds the API key read from the secrets directory at
// startup. Empty when no key file is present.
var secretsAPIKey string

// rootCmd is the base command for the aurorax CLI.
var rootCmd = &cobra.Command{
	Use:   "aurorax",
	Short: "Search the AuroraX space physics data platform",
	Long: `aurorax runs asynchronous searches against the AuroraX API. Searches are
submitted as declarative queries and executed remotely: the engine hands
back a request ID, the CLI polls until results are ready, then retrieves
the records.

Conjunction searches find moments where ground instruments, spacecraft,
and event lists were close to one another; ephemeris searches retrieve
location records; data product searches find derived files such as
keograms. Submitted request IDs are recorded in a local history so
long-running searches survive process exits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		key, err := secrets.APIKey(viper.GetString(cfgSecretsDir))
		if err != nil {
			return err
		}
		secretsAPIKey = key
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./aurorax.yaml or ~/.config/aurorax/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log API traffic to stderr")
	rootCmd.PersistentFlags().String("secrets", "", "directory with secret files (default: ./.secrets)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("aurorax")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "aurorax"))
		}
	}

	viper.SetDefault(cfgBaseURL, aurorax.DefaultBaseURL)
	viper.SetDefault(cfgTimeout, 10*time.Second)
	viper.SetDefault(cfgRate, 10.0)
	viper.SetDefault(cfgSecretsDir, ".secrets")

	viper.SetEnvPrefix("AURORAX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	if dir, _ := rootCmd.PersistentFlags().GetString("secrets"); dir != "" {
		viper.Set(cfgSecretsDir, dir)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("%s occurred: %v\n", aurorax.ErrorKind(err), err)
		os.Exit(1)
	}
}
