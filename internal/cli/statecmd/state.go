// Package statecmd inspects a running shell host: it dumps the state tree,
// resets it, or follows the patch stream like a render surface would.
package statecmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/pkg/patch"
	"github.com/payb0y/lindo-clean/pkg/surface"
)

// New returns the `lindo state` command group.
func New() *cobra.Command {
	var url string
	cmd := &cobra.Command{Use: "state", Short: "Inspect the state tree of a running host"}
	cmd.PersistentFlags().StringVar(&url, "url", "http://127.0.0.1:3000", "host base URL")

	var format string
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print the current state tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := Fetch(cmd.Context(), url)
			if err != nil {
				return err
			}
			return Render(cmd.OutOrStdout(), snap, format)
		},
	}
	dump.Flags().StringVar(&format, "format", "yaml", "yaml|json")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Reset the state tree to its defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := post(cmd.Context(), url+"/api/v1/state/reset")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset at seq %d\n", c.Seq)
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Follow commits as a render surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Watch(ctx, url, cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(dump, reset, watch)
	return cmd
}

var client = &http.Client{Timeout: 10 * time.Second}

// Fetch reads the snapshot from the host.
func Fetch(ctx context.Context, url string) (types.SnapshotResponse, error) {
	var snap types.SnapshotResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(url, "/")+"/api/v1/state", nil)
	if err != nil {
		return snap, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return snap, fmt.Errorf("fetch state: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return snap, err
	}
	err = json.NewDecoder(resp.Body).Decode(&snap)
	return snap, err
}

func post(ctx context.Context, url string) (types.CommitResponse, error) {
	var c types.CommitResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return c, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return c, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return c, err
	}
	err = json.NewDecoder(resp.Body).Decode(&c)
	return c, err
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("host returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
}

// Render writes the snapshot as yaml or indented json.
func Render(w io.Writer, snap types.SnapshotResponse, format string) error {
	var tree any
	if err := json.Unmarshal(snap.State, &tree); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	out := map[string]any{"seq": snap.Seq, "state": tree}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// Watch attaches as a surface and prints one line per commit until ctx ends
// or the host detaches it.
func Watch(ctx context.Context, url string, w io.Writer) error {
	c, err := surface.Dial(ctx, url, surface.Options{
		OnChange: func(_ []byte, seq uint64) {
			fmt.Fprintf(w, "seq %d\n", seq)
		},
		OnAssetsChanged: func(n patch.AssetsChanged) {
			fmt.Fprintf(w, "assets changed in %s: %s\n", n.Root, strings.Join(n.Paths, ", "))
		},
		OnError: func(e patch.ErrorPayload) {
			fmt.Fprintf(os.Stderr, "error %s: %s\n", e.Code, e.Message)
		},
	})
	if err != nil {
		return err
	}
	defer c.Close()
	select {
	case <-ctx.Done():
		return nil
	case <-c.Done():
		return c.Err()
	}
}
