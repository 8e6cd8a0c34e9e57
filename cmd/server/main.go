package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/gameroom/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "gameroom",
	Short: "Gameroom real-time session server",
	Long: `Gameroom hosts shared interactive sessions: turn-based games and
multi-party chats with ordered, session-scoped state updates delivered
over WebSockets.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gameroom server",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.New()
		if err := s.RegisterRoutes(context.Background()); err != nil {
			return err
		}
		s.Start()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
