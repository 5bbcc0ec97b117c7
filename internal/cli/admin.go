package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/isync/internal/client/api"
	"github.com/iudanet/isync/internal/models"
	pkgapi "github.com/iudanet/isync/pkg/api"
)

// ErrAdminSecretRequired защищенная команда вызвана без административного секрета
var ErrAdminSecretRequired = errors.New("admin secret is required: use --admin-secret or ISYNC_ADMIN_SECRET")

// adminClient создает клиент API и получает административный токен.
// Секрет: флаг, затем ISYNC_ADMIN_SECRET, затем интерактивный ввод.
func (o *RootOptions) adminClient(ctx context.Context) (*api.Client, error) {
	secret := o.AdminSecret
	if secret == "" {
		if v, ok := o.Lookup("ISYNC_ADMIN_SECRET"); ok {
			secret = v
		}
	}
	if secret == "" && o.IO.IsInteractive() {
		var err error
		if secret, err = o.IO.ReadPassword("Admin secret: "); err != nil {
			return nil, fmt.Errorf("failed to read admin secret: %w", err)
		}
	}
	if secret == "" {
		return nil, ErrAdminSecretRequired
	}

	client := api.NewClient(o.addr())
	if _, err := client.Login(ctx, secret); err != nil {
		return nil, err
	}
	return client, nil
}

// NewSyncCommand создает команду немедленной синхронизации
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push local state to every connected peer now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.adminClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := client.SyncNow(cmd.Context())
			if err != nil {
				return err
			}

			opts.IO.Printf("%s: %s\n", resp.Status, resp.Message)
			if resp.Status == pkgapi.SyncStatusError {
				return fmt.Errorf("sync failed: %s", resp.Message)
			}
			return nil
		},
	}
}

// NewHistoryCommand создает команду просмотра журнала синхронизации
func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.adminClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := client.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(resp.Entries) == 0 {
				opts.IO.Println("No sync history")
				return nil
			}
			for _, e := range resp.Entries {
				line := fmt.Sprintf("%s  %-3s  %-7s  %s  %s",
					e.CreatedAt.Format(time.RFC3339), e.Direction, e.Status, e.PeerNodeID, e.PeerURL)
				if e.Detail != "" {
					line += "  (" + e.Detail + ")"
				}
				opts.IO.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

// NewPeersCommand создает команду списка пиров с подкомандой add
func NewPeersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "List connected and saved peers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.adminClient(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := client.Peers(cmd.Context())
			if err != nil {
				return err
			}

			opts.IO.Printf("Connected (%d):\n", len(resp.Connected))
			for _, s := range resp.Connected {
				direction := "out"
				if s.Inbound {
					direction = "in"
				}
				opts.IO.Printf("  %s  %s  %s  %s  %s\n", s.NodeID, s.State, s.Mode, direction, s.URL)
			}

			opts.IO.Printf("Saved (%d):\n", len(resp.Saved))
			for _, p := range resp.Saved {
				verified := ""
				if p.Verified {
					verified = "  verified"
				}
				opts.IO.Printf("  %s  %s  %s%s\n", p.Name, p.Mode, p.URL, verified)
			}
			return nil
		},
	}

	cmd.AddCommand(newPeersAddCommand(opts))
	return cmd
}

func newPeersAddCommand(opts *RootOptions) *cobra.Command {
	var req pkgapi.AddPeerRequest

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Save a peer and connect to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.adminClient(cmd.Context())
			if err != nil {
				return err
			}

			req.URL = args[0]
			resp, err := client.AddPeer(cmd.Context(), req)
			if err != nil {
				return err
			}

			state := "saved, not connected"
			if resp.Connected {
				state = "connected"
			}
			opts.IO.Printf("Peer %s (%s): %s\n", resp.URL, resp.Mode, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Mode, "mode", "", "connection mode: encrypted or plain (default by node role)")
	cmd.Flags().BoolVar(&req.Verified, "verified", false, "mark peer as verified")
	return cmd
}

// NewRecordsCommand создает команду просмотра записей с подкомандами set и delete
func NewRecordsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Show the record store as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.adminClient(cmd.Context())
			if err != nil {
				return err
			}

			snapshot, err := client.Records(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode records: %w", err)
			}
			opts.IO.Println(string(out))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <table> <record-id> <field> <value>",
		Short: "Set a field; value is JSON, anything else is stored as a string",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.SetField(cmd.Context(), args[0], args[1], args[2], parseValue(args[3])); err != nil {
				return err
			}
			opts.IO.Printf("Set %s.%s.%s\n", args[0], args[1], args[2])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <table> <record-id> <field>",
		Short: "Delete a field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.adminClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.DeleteField(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			opts.IO.Printf("Deleted %s.%s.%s\n", args[0], args[1], args[2])
			return nil
		},
	})

	return cmd
}

// parseValue разбирает аргумент как JSON значение, иначе считает строкой
func parseValue(raw string) models.Value {
	var v models.Value
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err == nil {
		return v
	}
	return models.String(raw)
}
