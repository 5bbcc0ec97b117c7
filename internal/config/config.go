// Package config загружает настройки узла из YAML файла и переменных окружения ISYNC_*.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/isync/internal/crypto"
	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/internal/peer"
	"github.com/iudanet/isync/internal/projector"
	"github.com/iudanet/isync/internal/transport"
)

// ErrInvalidConfig возвращается Validate для некорректных значений
var ErrInvalidConfig = errors.New("invalid config")

// Значения по умолчанию, не заданные в других пакетах
const (
	DefaultDataDir           = "data"
	DefaultListen            = ":8080"
	DefaultPersistInterval   = 10 * time.Second
	DefaultReconnectInterval = time.Minute
	DefaultRateLimit         = 120
	DefaultTokenTTL          = time.Hour

	boltFile    = "isync.db"
	historyFile = "history.db"
)

// Config корневая структура файла настроек
type Config struct {
	Node   NodeConfig   `yaml:"node"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Peers  PeersConfig  `yaml:"peers"`
	Sync   SyncConfig   `yaml:"sync"`
}

// NodeConfig идентичность и каталог данных узла
type NodeConfig struct {
	ID      string      `yaml:"id"`       // ID пустой - берется из хранилища или генерируется
	Role    models.Role `yaml:"role"`     // Role control или relay
	DataDir string      `yaml:"data_dir"` // DataDir каталог для bbolt и sqlite файлов
}

// SyncConfig параметры синхронизации
type SyncConfig struct {
	Table             string        `yaml:"table"`
	Marker            string        `yaml:"marker"`
	Cipher            string        `yaml:"cipher"`
	TokenFile         string        `yaml:"token_file"`
	Interval          time.Duration `yaml:"interval"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout"`
	ConnectStagger    time.Duration `yaml:"connect_stagger"`
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`
	PushInterval      time.Duration `yaml:"push_interval"`
	PersistInterval   time.Duration `yaml:"persist_interval"`
}

// PeersConfig источники пиров
type PeersConfig struct {
	DiscoveryURL string   `yaml:"discovery_url"`
	Static       []string `yaml:"static"`
	Max          int      `yaml:"max"`
}

// ServerConfig HTTP сервер узла. Пустой AdminSecret отключает выдачу admin токенов.
type ServerConfig struct {
	Listen      string        `yaml:"listen"`
	AdminSecret string        `yaml:"admin_secret"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	RateLimit   int           `yaml:"rate_limit"`
}

// LogConfig уровень и формат логов
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	filter := projector.DefaultFilter()
	return &Config{
		Node: NodeConfig{
			Role:    models.RoleControl,
			DataDir: DefaultDataDir,
		},
		Sync: SyncConfig{
			Table:             filter.Table,
			Marker:            filter.Marker,
			Cipher:            crypto.SuiteAESGCM,
			Interval:          peer.DefaultSyncInterval,
			HandshakeTimeout:  peer.DefaultHandshakeTimeout,
			ConnectStagger:    peer.DefaultConnectStagger,
			ReconnectInterval: DefaultReconnectInterval,
			PersistInterval:   DefaultPersistInterval,
		},
		Peers: PeersConfig{
			Max: peer.DefaultMaxPeers,
		},
		Server: ServerConfig{
			Listen:    DefaultListen,
			TokenTTL:  DefaultTokenTTL,
			RateLimit: DefaultRateLimit,
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Load читает YAML файл поверх значений по умолчанию.
// Пустой path возвращает Default(). Неизвестные ключи - ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LookupFunc источник переменных окружения, обычно os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv переопределяет значения переменными окружения ISYNC_*
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = d
		return nil
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = n
		return nil
	}

	str("ISYNC_NODE_ID", &c.Node.ID)
	if v, ok := lookup("ISYNC_ROLE"); ok {
		c.Node.Role = models.Role(v)
	}
	str("ISYNC_DATA_DIR", &c.Node.DataDir)
	str("ISYNC_CIPHER", &c.Sync.Cipher)
	str("ISYNC_TOKEN_FILE", &c.Sync.TokenFile)
	str("ISYNC_DISCOVERY_URL", &c.Peers.DiscoveryURL)
	str("ISYNC_LISTEN", &c.Server.Listen)
	str("ISYNC_ADMIN_SECRET", &c.Server.AdminSecret)
	str("ISYNC_JWT_SECRET", &c.Server.JWTSecret)
	str("ISYNC_LOG_LEVEL", &c.Log.Level)
	str("ISYNC_LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("ISYNC_PEERS"); ok {
		c.Peers.Static = splitList(v)
	}

	if err := dur("ISYNC_SYNC_INTERVAL", &c.Sync.Interval); err != nil {
		return err
	}
	if err := num("ISYNC_MAX_PEERS", &c.Peers.Max); err != nil {
		return err
	}
	return num("ISYNC_RATE_LIMIT", &c.Server.RateLimit)
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !c.Node.Role.Valid() {
		fail("node.role must be %q or %q, got %q", models.RoleControl, models.RoleRelay, c.Node.Role)
	}
	if c.Node.DataDir == "" {
		fail("node.data_dir is required")
	}

	switch c.Sync.Cipher {
	case crypto.SuiteAESGCM, crypto.SuiteXChaCha20:
	default:
		fail("sync.cipher %q is not supported", c.Sync.Cipher)
	}
	if c.Sync.Table == "" || strings.Contains(c.Sync.Table, ".") {
		fail("sync.table must be a non-empty name without dots")
	}
	if c.Sync.PersistInterval <= 0 {
		fail("sync.persist_interval must be positive")
	}
	for key, d := range map[string]time.Duration{
		"sync.interval":           c.Sync.Interval,
		"sync.handshake_timeout":  c.Sync.HandshakeTimeout,
		"sync.connect_stagger":    c.Sync.ConnectStagger,
		"sync.reconnect_interval": c.Sync.ReconnectInterval,
		"sync.push_interval":      c.Sync.PushInterval,
		"server.token_ttl":        c.Server.TokenTTL,
	} {
		if d < 0 {
			fail("%s must not be negative", key)
		}
	}

	if c.Peers.Max < 0 {
		fail("peers.max must not be negative")
	}
	for _, u := range c.Peers.Static {
		if _, err := transport.NormalizeURL(u); err != nil {
			fail("peers.static: %v", err)
		}
	}
	if c.Peers.DiscoveryURL != "" {
		u, err := url.Parse(c.Peers.DiscoveryURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fail("peers.discovery_url must be an http(s) URL")
		}
	}

	if c.Server.RateLimit < 0 {
		fail("server.rate_limit must not be negative")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != FormatText && c.Log.Format != FormatJSON {
		fail("log.format must be %q or %q", FormatText, FormatJSON)
	}

	return errors.Join(errs...)
}

// Filter фильтр проектора из секции sync
func (c *Config) Filter() projector.Filter {
	return projector.Filter{Table: c.Sync.Table, Marker: c.Sync.Marker}
}

// BoltPath путь к файлу bbolt с записями и состоянием
func (c *Config) BoltPath() string {
	return filepath.Join(c.Node.DataDir, boltFile)
}

// HistoryPath путь к sqlite файлу истории и сохраненных пиров
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Node.DataDir, historyFile)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
