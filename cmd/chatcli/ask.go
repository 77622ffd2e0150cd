package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docchat-be/internal/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	askURL   string
	askFiles []string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question over HTTP",
	Long: `Send one question to POST /chat and print the answer.

Without --files every uploaded document is searched. --files="" searches none.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if cmd.Flags().Changed("files") {
			files = make([]string, 0, len(askFiles))
			files = append(files, askFiles...)
		}
		return runAsk(cmd.Context(), askURL, strings.Join(args, " "), files, cmd.OutOrStdout())
	},
}

func init() {
	askCmd.Flags().StringVar(&askURL, "url", "http://localhost:8000/api/v1", "API base URL")
	askCmd.Flags().StringSliceVar(&askFiles, "files", nil, "restrict the search to these uploaded files")
}

func runAsk(ctx context.Context, baseURL, question string, files []string, out io.Writer) error {
	body, err := json.Marshal(dto.ChatRequest{Text: &question, ContextFiles: files})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/chat", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("server returned %s: %s", res.Status, strings.TrimSpace(string(msg)))
	}

	var reply dto.ChatResponse
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(out, reply.Response)
	return nil
}
