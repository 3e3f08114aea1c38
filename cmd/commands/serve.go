package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/api"
	"github.com/pluqqy/memberdesk/internal/cli"
)

var (
	serveAddr string
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the member store over HTTP",
		Long: `Start the HTTP API over the local member store.

Other memberdesk clients can use it by setting server.remote_url (or
MEMBERDESK_SERVER_REMOTE_URL) to this server's address.

Routes:
  GET    /health
  GET    /members?offset=&limit=&q=
  POST   /members
  GET    /members/{id}
  PATCH  /members/{id}
  DELETE /members/{id}
  POST   /members/{id}/password/check

Examples:
  memberdesk serve
  memberdesk serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	if ctx.Settings.Server.RemoteURL != "" {
		return fmt.Errorf("server.remote_url is set; serve needs a local storage backend")
	}

	addr := serveAddr
	if addr == "" {
		addr = ctx.Settings.Server.Addr
	}

	logger := log.New(cmd.ErrOrStderr(), "memberdesk ", log.LstdFlags)
	srv := &http.Server{
		Handler:           api.NewServer(s, logger, ctx.Settings.UI.PageSize).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(runCtx, srv, listener)
}

// serve runs srv on listener until ctx is done, then shuts it down
func serve(ctx context.Context, srv *http.Server, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	cli.PrintInfo("Serving members API on http://%s", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	cli.PrintInfo("Server stopped")
	return nil
}
