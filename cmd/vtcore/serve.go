package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/caddyserver/certmagic"
	"github.com/spf13/cobra"
	"github.com/vtcore/editor/pkg/api"
	"github.com/vtcore/editor/pkg/termsocket"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the session server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	sockets := termsocket.NewManager(sessions)
	defer sockets.Shutdown()

	server := api.NewServer(sessions, sockets)

	if settings.EnableTLS && settings.Domain != "" {
		certmagic.DefaultACME.Email = settings.TLSEmail
		return certmagic.HTTPS([]string{settings.Domain}, server.Router())
	}

	listener, err := net.Listen("tcp", settings.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", settings.ListenAddr, err)
	}

	log.Printf("[INFO] serving on %s", settings.ListenAddr)
	return http.Serve(listener, server.Router())
}
