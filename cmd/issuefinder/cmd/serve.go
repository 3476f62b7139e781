package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/output"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/server"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the issue finder over HTTP",
	Long: `Start the HTTP API. Each client keeps its own session, identified by
the X-Session-ID header, holding its issue collection, filters and the
current analysis.

Examples:
  issuefinder serve
  issuefinder serve --addr 127.0.0.1:9000 --provider anthropic`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", server.DefaultAddr, "Listen address")
	serveCmd.Flags().Duration("session-ttl", session.DefaultIdleTTL, "Idle time after which a session is discarded")
	serveCmd.Flags().Bool("release", false, "Run gin in release mode")

	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("serve.session-ttl", serveCmd.Flags().Lookup("session-ttl"))
	_ = viper.BindPFlag("serve.release", serveCmd.Flags().Lookup("release"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := newSessionDeps(ctx)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:       viper.GetString("serve.addr"),
		SessionTTL: viper.GetDuration("serve.session-ttl"),
		Release:    viper.GetBool("serve.release"),
	}, deps)

	ui := newUI()
	ui.Info("Listening on %s", output.Cyan(viper.GetString("serve.addr")))

	if err := srv.Run(ctx); err != nil {
		return err
	}
	ui.Success("Server stopped")
	return nil
}

// newSessionDeps builds the collaborators shared by the long-running servers.
func newSessionDeps(ctx context.Context) (session.Deps, error) {
	src, err := newSource(ctx)
	if err != nil {
		return session.Deps{}, err
	}
	engine, err := newEngine()
	if err != nil {
		return session.Deps{}, err
	}
	gen, err := newGenerator()
	if err != nil {
		return session.Deps{}, err
	}
	return session.Deps{Source: src, Engine: engine, Generator: gen}, nil
}
