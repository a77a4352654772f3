package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/vtcore/editor/pkg/api"
	"github.com/vtcore/editor/pkg/termsocket"
	"golang.ngrok.com/ngrok"
	"golang.ngrok.com/ngrok/config"
)

func newTunnelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tunnel",
		Short: "Serve sessions through an ngrok tunnel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTunnel(cmd.Context())
		},
	}
}

func runTunnel(ctx context.Context) error {
	if settings.NgrokAuth == "" {
		return fmt.Errorf("ngrokAuthToken is not set in config")
	}

	sockets := termsocket.NewManager(sessions)
	defer sockets.Shutdown()
	server := api.NewServer(sessions, sockets)

	listener, err := ngrok.Listen(ctx,
		config.HTTPEndpoint(),
		ngrok.WithAuthtoken(settings.NgrokAuth),
	)
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}

	log.Printf("[INFO] tunnel established at %s", listener.URL())
	return http.Serve(listener, server.Router())
}
