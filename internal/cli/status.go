package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/beacon/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current backend availability",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Probe the backend now and count a reconnection attempt",
	Args:  cobra.NoArgs,
	RunE:  runRetry,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(retryCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return call(cmd, http.MethodGet, "/status")
}

func runRetry(cmd *cobra.Command, args []string) error {
	return call(cmd, http.MethodPost, "/retry")
}

func call(cmd *cobra.Command, method, path string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := request(ctx, method, strings.TrimRight(addr, "/")+path)
	if err != nil {
		return err
	}
	return printStatus(cmd.OutOrStdout(), resp)
}

func request(ctx context.Context, method, url string) (*status.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", res.Status)
	}

	var out status.Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func printStatus(out io.Writer, resp *status.Response) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintf(w, "STATE\t%s\n", resp.State)
	_, _ = fmt.Fprintf(w, "MESSAGE\t%s\n", resp.Message)
	if resp.Detail != "" {
		_, _ = fmt.Fprintf(w, "DETAIL\t%s\n", resp.Detail)
	}
	_, _ = fmt.Fprintf(w, "RETRIES\t%d\n", resp.RetryCount)
	if resp.ProjectName != "" {
		_, _ = fmt.Fprintf(w, "PROJECT\t%s\n", resp.ProjectName)
	}
	_, _ = fmt.Fprintf(w, "SINCE\t%s\n", resp.Since.Format(time.RFC3339))
	if resp.LastError != "" {
		_, _ = fmt.Fprintf(w, "LAST ERROR\t%s\n", resp.LastError)
	}
	return w.Flush()
}
