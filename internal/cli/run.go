package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/isync/internal/codec"
	"github.com/iudanet/isync/internal/config"
	"github.com/iudanet/isync/internal/crypto"
	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/node"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/internal/projector"
	"github.com/iudanet/isync/internal/server"
	"github.com/iudanet/isync/internal/storage/boltdb"
	"github.com/iudanet/isync/internal/storage/sqlite"
)

// RunOptions флаги команды run. Непустые значения перекрывают файл и окружение.
type RunOptions struct {
	*RootOptions
	Token        string
	TokenFile    string
	Role         string
	DataDir      string
	Listen       string
	DiscoveryURL string
	Peers        []string
}

// NewRunCommand создает команду запуска узла
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a sync node",
		Long: `Start a sync node: HTTP API, peer websocket endpoint, discovery and auto sync.

Shared token priority for control nodes:
  1. ISYNC_TOKEN environment variable
  2. --token-file (or sync.token_file in config)
  3. --token
  4. interactive prompt when stdin is a terminal

Example:
  isync run --config /etc/isync.yaml
  ISYNC_TOKEN=... isync run --listen :9000 --peer http://10.0.0.2:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Token, "token", "", "shared sync token")
	cmd.Flags().StringVar(&opts.TokenFile, "token-file", "", "path to file containing shared sync token")
	cmd.Flags().StringVar(&opts.Role, "role", "", "node role: control or relay")
	cmd.Flags().StringVar(&opts.DataDir, "data-dir", "", "directory for local databases")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "HTTP listen address")
	cmd.Flags().StringVar(&opts.DiscoveryURL, "discovery-url", "", "peer discovery endpoint")
	cmd.Flags().StringArrayVar(&opts.Peers, "peer", nil, "static peer URL (repeatable)")

	return cmd
}

// loadConfig собирает настройки: значения по умолчанию, файл, окружение, флаги
func (o *RunOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(o.Lookup); err != nil {
		return nil, err
	}

	if o.Role != "" {
		cfg.Node.Role = models.Role(o.Role)
	}
	if o.DataDir != "" {
		cfg.Node.DataDir = o.DataDir
	}
	if o.Listen != "" {
		cfg.Server.Listen = o.Listen
	}
	if o.DiscoveryURL != "" {
		cfg.Peers.DiscoveryURL = o.DiscoveryURL
	}
	if len(o.Peers) > 0 {
		cfg.Peers.Static = o.Peers
	}
	if o.TokenFile != "" {
		cfg.Sync.TokenFile = o.TokenFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runNode(ctx context.Context, opts *RunOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}

	// Relay узел не получает токен, даже если он задан
	var token string
	if cfg.Node.Role == models.RoleControl {
		token, err = config.ResolveToken(config.TokenSources{
			Lookup:   opts.Lookup,
			FromFile: cfg.Sync.TokenFile,
			FromArgs: opts.Token,
		}, opts.IO, true)
		if err != nil {
			return err
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, token, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}

// app собранный узел со всеми зависимостями
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	bolt    *boltdb.Storage
	history *sqlite.Storage
	node    *node.Node
	peers   *peer.Manager
	server  *server.Server
}

func newApp(ctx context.Context, cfg *config.Config, token string, logger *slog.Logger) (_ *app, err error) {
	if err := os.MkdirAll(cfg.Node.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.bolt, err = boltdb.New(ctx, cfg.BoltPath()); err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	if a.history, err = sqlite.New(ctx, cfg.HistoryPath()); err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	nodeID, err := node.ResolveNodeID(ctx, a.bolt, cfg.Node.ID)
	if err != nil {
		return nil, err
	}

	var (
		cipher      crypto.Cipher
		fingerprint string
	)
	if token != "" {
		key, err := crypto.DeriveTokenKey(token)
		if err != nil {
			return nil, err
		}
		if cipher, err = crypto.NewCipher(cfg.Sync.Cipher, key); err != nil {
			return nil, fmt.Errorf("failed to create cipher: %w", err)
		}
		fingerprint = crypto.Fingerprint(key)
	}

	a.node, err = node.New(node.Options{
		Records:        a.bolt,
		States:         a.bolt,
		Metadata:       a.bolt,
		History:        a.history,
		Codec:          codec.New(nodeID, cfg.Node.Role, cipher),
		Projector:      projector.New(cfg.Filter()),
		Logger:         logger,
		ID:             nodeID,
		Role:           cfg.Node.Role,
		KeyFingerprint: fingerprint,
	})
	if err != nil {
		return nil, err
	}
	if err := a.node.Load(ctx); err != nil {
		return nil, err
	}

	a.peers = peer.NewManager(a.node, peer.Config{
		DefaultMode:       node.DefaultMode(cfg.Node.Role),
		StaticPeers:       cfg.Peers.Static,
		MaxPeers:          cfg.Peers.Max,
		ConnectStagger:    cfg.Sync.ConnectStagger,
		HandshakeTimeout:  cfg.Sync.HandshakeTimeout,
		PushInterval:      cfg.Sync.PushInterval,
		ReconnectInterval: cfg.Sync.ReconnectInterval,
	}, logger,
		peer.WithDiscovery(peer.NewDiscovery(cfg.Peers.DiscoveryURL, 0, logger)),
		peer.WithSavedPeers(a.history),
	)
	a.node.AttachPeers(a.peers)

	a.server, err = server.New(server.Config{
		NodeID:           nodeID,
		Listen:           cfg.Server.Listen,
		AdminSecret:      cfg.Server.AdminSecret,
		JWTSecret:        []byte(cfg.Server.JWTSecret),
		TokenTTL:         cfg.Server.TokenTTL,
		HandshakeTimeout: cfg.Sync.HandshakeTimeout,
		RateLimit:        cfg.Server.RateLimit,
	}, a.node, a.peers, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Node initialized",
		"node_id", nodeID,
		"role", cfg.Node.Role,
		"data_dir", cfg.Node.DataDir,
		"cipher", cfg.Sync.Cipher,
		"encrypted", cipher != nil,
	)
	return a, nil
}

// Run запускает HTTP сервер, подключение к пирам, автосинхронизацию и
// периодическое сохранение. Возвращается после отмены ctx или ошибки сервера.
func (a *app) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Изменения, сделанные пока узел был остановлен
	if _, err := a.node.StageLocalChanges(ctx); err != nil {
		a.logger.Error("Failed to stage local changes", "error", err)
	}

	var (
		wg        sync.WaitGroup
		serverErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := a.server.Run(ctx); err != nil {
			serverErr = err
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		a.peers.AutoDiscover(ctx)
		a.peers.RunAutoSync(ctx, a.cfg.Sync.Interval)
	}()
	go func() {
		defer wg.Done()
		a.node.RunPersistence(ctx, a.cfg.Sync.PersistInterval)
	}()

	<-ctx.Done()
	a.logger.Info("Shutting down node")
	a.peers.Close()
	wg.Wait()

	if serverErr != nil && !errors.Is(serverErr, context.Canceled) {
		return serverErr
	}
	return nil
}

// Close закрывает хранилища. Безопасен для частично собранного app.
func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Error("Failed to close history store", "error", err)
		}
	}
	if a.bolt != nil {
		if err := a.bolt.Close(); err != nil {
			a.logger.Error("Failed to close record store", "error", err)
		}
	}
}
