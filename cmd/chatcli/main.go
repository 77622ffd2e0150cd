// Command chatcli talks to a running docchat server from a terminal.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chatcli",
	Short: "Terminal client for the document chat service",
	Long: `Chat with the documents uploaded to a docchat server.

Available subcommands:
  chat   - Interactive WebSocket session
  ask    - One-shot question over HTTP
  events - Follow document upload/delete events on NATS`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(chatCmd, askCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
