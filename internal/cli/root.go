// Package cli команды исполняемого файла isync: запуск узла и управление им через HTTP API
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/isync/internal/config"
	"github.com/iudanet/isync/internal/iocli"
)

// DefaultAddr адрес API узла для клиентских команд
const DefaultAddr = "http://localhost:8080"

// BuildInfo сведения о сборке, задаются через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// RootOptions глобальные флаги и зависимости всех команд
type RootOptions struct {
	IO          iocli.IO
	Lookup      config.LookupFunc
	Build       BuildInfo
	ConfigPath  string
	Addr        string
	AdminSecret string
}

// NewRootCommand создает корневую команду isync
func NewRootCommand(build BuildInfo, io iocli.IO) *cobra.Command {
	opts := &RootOptions{
		IO:     io,
		Lookup: os.LookupEnv,
		Build:  build,
	}

	cmd := &cobra.Command{
		Use:   "isync",
		Short: "isync - CRDT peer-to-peer config synchronization node",
		Long: `isync keeps a configuration table consistent across a set of peers.

Every node merges replicated state with last-writer-wins registers and a
grow-only deletion set. Control nodes hold the shared token and encrypt the
payload; relay nodes store and forward it without decrypting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "", "node API address for client commands (env ISYNC_ADDR)")
	cmd.PersistentFlags().StringVar(&opts.AdminSecret, "admin-secret", "", "admin secret for protected commands (env ISYNC_ADMIN_SECRET)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewPeersCommand(opts))
	cmd.AddCommand(NewRecordsCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// addr адрес API: флаг, затем ISYNC_ADDR, затем DefaultAddr
func (o *RootOptions) addr() string {
	if o.Addr != "" {
		return o.Addr
	}
	if v, ok := o.Lookup("ISYNC_ADDR"); ok && v != "" {
		return v
	}
	return DefaultAddr
}
