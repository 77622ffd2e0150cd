package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"docchat-be/internal/dto"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var chatURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat session",
	Long: `Open a WebSocket session and send each line typed on stdin as a question.

Type 'exit' to end the session. The server closes idle sessions on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context(), chatURL, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatURL, "url", "ws://localhost:8000/api/v1/chat", "WebSocket endpoint")
}

func runChat(ctx context.Context, url string, in io.Reader, out io.Writer) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer conn.Close()

	prompt := color.New(color.FgCyan)
	answer := color.New(color.FgGreen)
	notice := color.New(color.FgYellow)

	notice.Fprintf(out, "Connected to %s\n", url)
	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(out, "> ")
		if !scanner.Scan() {
			// stdin closed: say goodbye the same way a user would.
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return scanner.Err()
		}
		line := scanner.Text()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return err
		}

		reply, err := readReply(conn)
		if err != nil {
			if closed(err) {
				notice.Fprintln(out, "Session closed by server")
				return nil
			}
			return err
		}
		answer.Fprintln(out, reply.Response)

		if line == "exit" {
			return nil
		}
	}
}

func readReply(conn *websocket.Conn) (*dto.ChatResponse, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var reply dto.ChatResponse
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("unexpected frame %q: %w", strings.TrimSpace(string(data)), err)
	}
	return &reply, nil
}

func closed(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr)
}
