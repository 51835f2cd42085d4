package main

import (
	"fmt"
	"strings"

	"github.com/playergold/playergold-go/internal/app"
	"github.com/playergold/playergold-go/internal/config"
	"github.com/playergold/playergold-go/internal/logger"
	"github.com/spf13/cobra"
)

// cli carries state shared by every subcommand for a single invocation.
type cli struct {
	apiURL string
	apiKey string

	cfg *config.Config
	log logger.Logger
	sdk *app.SDK
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:   "playergold",
		Short: "Command-line client for the PlayerGold wallet API",
		Long: `playergold talks to a PlayerGold node over its REST API.

Configuration is read from PLAYERGOLD_* environment variables and configs/.env.

Examples:
  playergold status
  playergold balance PG1abc...
  playergold send --from PG1abc... --to PG1def... --amount 2.5
  playergold watch`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "API base URL (overrides PLAYERGOLD_API_URL)")
	root.PersistentFlags().StringVar(&c.apiKey, "api-key", "", "API key (overrides PLAYERGOLD_API_KEY)")

	root.AddCommand(
		c.authCmd(),
		c.balanceCmd(),
		c.sendCmd(),
		c.txCmd(),
		c.statusCmd(),
		c.watchCmd(),
	)
	return root, c
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(c.apiURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(c.apiKey); v != "" {
		cfg.APIKey = v
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.DebugObj("playergold starting", "config", cfg)

	sdk, err := app.NewSDK(cmd.Context(), cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize client", "error", err)
		_ = logger.Close()
		return err
	}

	c.cfg = cfg
	c.log = log
	c.sdk = sdk
	return nil
}

// teardown drains pending notifier deliveries before the process exits.
func (c *cli) teardown() {
	if c.sdk == nil {
		return
	}
	if err := c.sdk.Close(); err != nil {
		logger.ErrorObj("shutdown failed", "error", err)
	}
	_ = logger.Close()
}
