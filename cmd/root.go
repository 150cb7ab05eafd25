package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/baselinescan/baselinescan/config"
)

var (
	cfgFile   string
	appConfig *config.Config
	logger    hclog.Logger

	rootCmd = &cobra.Command{
		Use:          "baselinescan [command]",
		SilenceUsage: true,
		Short:        "Baselinescan detects web platform feature usage and its Baseline status.",
		Long: `Baselinescan analyzes CSS, JavaScript/TypeScript and HTML sources for web
platform feature usage and classifies every occurrence against the Baseline
browser-compatibility dataset.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newFeaturesCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	var err error
	appConfig, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger = hclog.New(&hclog.LoggerOptions{
		Name:   "baselinescan",
		Output: os.Stderr,
		Level:  hclog.LevelFromString(appConfig.Logger.Level),
	})
}
