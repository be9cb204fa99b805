package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	v1 "github.com/stacklok/media-readiness-server/internal/api/v1"
	"github.com/stacklok/media-readiness-server/internal/httpclient"
	"github.com/stacklok/media-readiness-server/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync state and item readiness of a running server",
	Long: `Query a running readiness-api server and print its sync state followed by
a table of every tracked item with its readiness status.`,
	RunE: runStatus,
}

const statusRequestTimeout = 10 * time.Second

func init() {
	statusCmd.Flags().String("server", "http://localhost:8080", "Base URL of the readiness-api server")
	statusCmd.Flags().String("status", "", "Only show items with this status (ready, almost-ready, not-ready)")
	statusCmd.Flags().String("kind", "", "Only show items of this kind (series, movie)")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	server, err := cmd.Flags().GetString("server")
	if err != nil {
		return fmt.Errorf("failed to get server flag: %w", err)
	}
	statusFilter, err := cmd.Flags().GetString("status")
	if err != nil {
		return fmt.Errorf("failed to get status flag: %w", err)
	}
	kindFilter, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), statusRequestTimeout)
	defer cancel()

	client := httpclient.NewClient(httpclient.WithTimeout(statusRequestTimeout))
	base := strings.TrimRight(server, "/")

	var state status.SyncState
	if err := getJSON(ctx, client, base+"/api/v1/sync", &state); err != nil {
		return err
	}

	query := url.Values{}
	if statusFilter != "" {
		query.Set("status", statusFilter)
	}
	if kindFilter != "" {
		query.Set("kind", kindFilter)
	}
	itemsURL := base + "/api/v1/items"
	if len(query) > 0 {
		itemsURL += "?" + query.Encode()
	}

	var items v1.ItemListResponse
	if err := getJSON(ctx, client, itemsURL, &items); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printSyncState(out, state); err != nil {
		return err
	}
	return printItems(out, items.Items)
}

func getJSON(ctx context.Context, client httpclient.Client, url string, v any) error {
	body, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", url, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

func printSyncState(w io.Writer, state status.SyncState) error {
	lines := []string{fmt.Sprintf("Sync: %s", state.Phase)}
	if state.Trigger != "" {
		lines = append(lines, fmt.Sprintf("Trigger: %s", state.Trigger))
	}
	if state.LastSyncCompletedAt != nil {
		lines = append(lines, fmt.Sprintf("Last sync: %s (snapshot v%d, %d series, %d movies)",
			state.LastSyncCompletedAt.Format(time.RFC3339), state.SnapshotVersion, state.SeriesCount, state.MovieCount))
	}
	if state.LastError != "" {
		lines = append(lines, fmt.Sprintf("Last error: %s", state.LastError))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n")+"\n")
	return err
}

func printItems(w io.Writer, items []v1.ItemResponse) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No items evaluated yet")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Title", "Kind", "Status", "Progress", "Details", "Dismissed")
	for _, item := range items {
		details := make([]string, 0, len(item.RuleResults))
		for _, r := range item.RuleResults {
			details = append(details, r.CompactDetail)
		}
		dismissed := ""
		if item.Dismissed {
			dismissed = "yes"
		}
		if err := table.Append([]string{
			item.Title,
			string(item.ItemKind),
			string(item.Status),
			fmt.Sprintf("%.0f%%", item.ProgressPercent*100),
			strings.Join(details, ", "),
			dismissed,
		}); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
