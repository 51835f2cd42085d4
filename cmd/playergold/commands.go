package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/playergold/playergold-go/internal/app"
	"github.com/playergold/playergold-go/internal/logger"
	"github.com/playergold/playergold-go/pkg/playergold"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const privateKeyEnv = "PLAYERGOLD_PRIVATE_KEY"

func (c *cli) authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Obtain a bearer token and show its expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.sdk.Client.EnsureAuthenticated(cmd.Context()); err != nil {
				return err
			}
			sess := c.sdk.Client.Session()
			fmt.Printf("%s authenticated against %s\n", color.GreenString("✔"), color.CyanString(c.cfg.APIURL))
			fmt.Printf("  token expires %s (in %s)\n",
				sess.ExpiresAt.Local().Format(time.RFC1123),
				time.Until(sess.ExpiresAt).Round(time.Second))
			return nil
		},
	}
}

func (c *cli) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bal, err := c.sdk.Client.GetBalance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s PRGLD\n", color.CyanString(bal.Address), color.GreenString(bal.Amount.String()))
			return nil
		},
	}
}

func (c *cli) sendCmd() *cobra.Command {
	var from, to, amount, privateKey string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a transfer",
		Long: `Submit a transfer between two addresses.

The configured transaction fee is added by the client. The private key may be
passed with --private-key or through ` + privateKeyEnv + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			if !amt.IsPositive() {
				return errors.New("amount must be positive")
			}
			if privateKey == "" {
				privateKey = os.Getenv(privateKeyEnv)
			}
			if privateKey == "" {
				return fmt.Errorf("private key is required (--private-key or %s)", privateKeyEnv)
			}

			receipt, err := c.sdk.Client.CreateTransaction(cmd.Context(), playergold.TransactionRequest{
				FromAddress: from,
				ToAddress:   to,
				Amount:      amt,
				PrivateKey:  privateKey,
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s sent %s PRGLD (fee %s)\n", color.GreenString("✔"), amt.String(), c.sdk.Client.Fee().String())
			fmt.Printf("  hash %s\n", color.CyanString(receipt.TransactionHash))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "sender address")
	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to send")
	cmd.Flags().StringVar(&privateKey, "private-key", "", "sender private key")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (c *cli) txCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Look up a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := c.sdk.Client.GetTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", color.CyanString(rec.Hash), statusColor(rec.Status))
			fmt.Printf("  from   %s\n", rec.FromAddress)
			fmt.Printf("  to     %s\n", rec.ToAddress)
			fmt.Printf("  amount %s (fee %s)\n", rec.Amount.String(), rec.Fee.String())
			if rec.TransactionType != "" {
				fmt.Printf("  type   %s\n", rec.TransactionType)
			}
			if ts := rec.Time(); !ts.IsZero() {
				fmt.Printf("  time   %s\n", ts.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show network status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.sdk.Client.GetNetworkStatus(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(status)
			return nil
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll network status until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				interval = c.cfg.WatchInterval
			}
			w, err := app.NewWatcher(c.sdk.Client, c.sdk.Events(), interval, c.cfg.APIURL, c.log)
			if err != nil {
				return err
			}
			w.OnStatus = func(s playergold.NetworkStatus) {
				fmt.Printf("%s ", color.New(color.Faint).Sprint(time.Now().Format(time.TimeOnly)))
				printStatus(s)
			}

			if c.cfg.MetricsAddr != "" {
				stop := serveMetrics(c.cfg.MetricsAddr, c.log)
				defer stop()
			}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (defaults to PLAYERGOLD_WATCH_INTERVAL_SECONDS)")
	return cmd
}

func printStatus(s playergold.NetworkStatus) {
	mining := color.YellowString("idle")
	if s.IsMining {
		mining = color.GreenString("mining")
	}
	fmt.Printf("%s height %d, pending %d, %s\n",
		color.CyanString(s.Network), s.ChainLength, s.PendingTransactions, mining)
}

func statusColor(status string) string {
	switch status {
	case "confirmed":
		return color.GreenString(status)
	case "pending":
		return color.YellowString(status)
	case "":
		return color.New(color.Faint).Sprint("unknown")
	default:
		return color.RedString(status)
	}
}

// serveMetrics exposes the Prometheus registry and returns a shutdown func.
func serveMetrics(addr string, log logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.InfoObj("metrics server listening", "metrics_addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorObj("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
