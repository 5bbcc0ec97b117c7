package cli

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/isync/internal/client/api"
)

// NewStatusCommand создает команду статуса узла. Статус публичный, секрет не нужен.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status of a running node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := api.NewClient(opts.addr()).Status(cmd.Context())
			if err != nil {
				return err
			}

			opts.IO.Println("=== Sync Status ===")
			opts.IO.Println()
			opts.IO.Printf("Node:         %s (%s)\n", status.NodeID, status.Role)
			opts.IO.Printf("Sync enabled: %t\n", status.SyncEnabled)
			if status.HasToken {
				opts.IO.Printf("Cipher:       %s, key %s\n", status.CipherSuite, status.KeyFingerprint)
			} else {
				opts.IO.Println("Cipher:       none (relay)")
			}
			opts.IO.Printf("Registers:    %d (deleted %d)\n", status.RegisterCount, status.DeletedCount)

			if status.LastSyncTime != nil {
				opts.IO.Printf("Last sync:    %s\n", status.LastSyncTime.Format(time.RFC3339))
			} else {
				opts.IO.Println("Last sync:    never")
			}

			opts.IO.Printf("Peers:        %d connected\n", status.ConnectedPeers)
			for _, u := range status.ConnectedTo {
				opts.IO.Printf("  - %s\n", u)
			}

			if len(status.VectorClock) > 0 {
				ids := make([]string, 0, len(status.VectorClock))
				for id := range status.VectorClock {
					ids = append(ids, id)
				}
				sort.Strings(ids)

				parts := make([]string, 0, len(ids))
				for _, id := range ids {
					parts = append(parts, id+"="+strconv.FormatInt(status.VectorClock[id], 10))
				}
				opts.IO.Printf("Clock:        %s\n", strings.Join(parts, " "))
			}
			return nil
		},
	}
}
