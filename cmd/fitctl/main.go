package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akkash/bizsearch-new-sub002/internal/common/config"
	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
)

var (
	cfg        *config.Config
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "fitctl",
	Short: "Opportunity fit and ROI projection tool",
	Long: `Ranks franchise opportunities against investor profiles and builds
conservative, realistic and optimistic ROI projections, offline or as an
HTTP service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *config.Config
			err error
		)
		if configPath != "" {
			c, err = config.LoadFromFile(configPath)
		} else {
			c, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		// Results go to stdout; logs stay on stderr.
		l, err := logger.NewWithOutput(level, "console", "stderr")
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
