package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"docchat-be/pkg/events"
	pktNats "docchat-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var eventsNatsURL string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow document lifecycle events",
	Long: `Print DOCUMENT_UPLOADED and DOCUMENT_DELETED events as the server publishes them.

Requires the server to run with NATS_URL set. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sub, err := pktNats.NewSubscriber(eventsNatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		out := cmd.OutOrStdout()
		color.New(color.FgYellow).Fprintf(out, "Following %s on %s\n", pktNats.StreamName, eventsNatsURL)
		return sub.Subscribe(ctx, pktNats.SubjectPrefix+">", func(ctx context.Context, evt events.Event) error {
			printEvent(out, evt)
			return nil
		})
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsNatsURL, "nats", "nats://localhost:4222", "NATS server URL")
}

func printEvent(out io.Writer, evt events.Event) {
	c := color.New(color.FgGreen)
	if evt.EventType() == events.DocumentDeleted {
		c = color.New(color.FgRed)
	}
	c.Fprintf(out, "%s %-17s %v\n",
		evt.Timestamp().Format("15:04:05"),
		evt.EventType(),
		evt.Payload()["filename"],
	)
	if size, ok := evt.Payload()["size"]; ok {
		fmt.Fprintf(out, "         size=%v\n", size)
	}
}
