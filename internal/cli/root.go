// Package cli is the command-line consumer of the concierge endpoints.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-concierge/internal/app/client"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/extractor"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/widgets"
	"github.com/FACorreiaa/go-concierge/internal/pkg/cache"
	"github.com/FACorreiaa/go-concierge/internal/pkg/config"
	"github.com/FACorreiaa/go-concierge/internal/routes"
	"github.com/FACorreiaa/go-concierge/internal/server"
	"github.com/FACorreiaa/go-concierge/pkg/logger"
)

var version = "dev"

var (
	serverURL string
	sessionID string
	useMock   bool
	verbose   bool
	timeout   time.Duration
)

// concierge is built by PersistentPreRunE for every command that talks to
// the endpoints.
var (
	concierge *client.Concierge
	cleanup   func()
	log       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "simon",
	Short: "Talk to Simon, the hotel concierge",
	Long: `Chats with Simon and fetches dining and attraction recommendations.

Without --server the endpoints run in-process from the same configuration
the server reads (.env and environment variables).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "base URL of a running concierge server")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "cli", "session id for the transcript and cache")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "chat through the canned mock endpoint")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout against --server")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if verbose {
		if err := logger.Init(zapcore.DebugLevel, zap.String("component", "cli")); err != nil {
			return err
		}
		log = logger.Log
	}

	var (
		transport client.Transport
		registry  *cache.Registry
	)
	if serverURL != "" {
		transport = client.NewHTTPTransport(serverURL, timeout)
		registry = cache.NewRegistry(cache.NewMemoryStorage(24*time.Hour), cache.DefaultQueryTTL, 24*time.Hour, log)
		cleanup = nil
	} else {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		srv, err := server.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		h := routes.NewAppHandlers(cfg, srv.Provider(), srv.Registry(), log)
		transport = h.Transport
		registry = srv.Registry()
		cleanup = srv.Close
	}

	opts := []client.Option{client.WithLogger(log)}
	if useMock {
		opts = append(opts, client.WithChatPath(client.MockChatPath))
	}
	detector := widgets.NewDetector(extractor.NewSeeded(uint64(time.Now().UnixNano())), log)
	concierge = client.NewConcierge(transport, registry.Store(cmd.Context(), sessionID), detector, opts...)
	return nil
}

func ready() error {
	if concierge == nil {
		return errors.New("concierge not configured")
	}
	return nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
