package peer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/isync/pkg/api"
)

// DefaultDiscoveryTimeout таймаут запроса списка пиров
const DefaultDiscoveryTimeout = 10 * time.Second

// maxDiscoveryBody ограничение размера ответа discovery
const maxDiscoveryBody = 1 << 20

// Discovery получает список кандидатов в пиры с HTTP эндпоинта.
// Ответ - JSON массив {name, url, verified}.
type Discovery struct {
	httpClient *http.Client
	logger     *slog.Logger
	url        string
}

// NewDiscovery создает клиент discovery. Пустой url отключает discovery.
func NewDiscovery(url string, timeout time.Duration, logger *slog.Logger) *Discovery {
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	return &Discovery{
		url:    url,
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled сообщает, задан ли адрес discovery
func (d *Discovery) Enabled() bool {
	return d != nil && d.url != ""
}

// Fetch запрашивает список пиров. Любая ошибка дает пустой список:
// узел продолжает работу с нулем пиров.
func (d *Discovery) Fetch(ctx context.Context) []api.PeerInfo {
	if !d.Enabled() {
		return []api.PeerInfo{}
	}

	peers, err := d.fetch(ctx)
	if err != nil {
		d.logger.Warn("Peer discovery failed", "url", d.url, "error", err)
		return []api.PeerInfo{}
	}

	d.logger.Debug("Peer discovery finished", "url", d.url, "count", len(peers))
	return peers
}

func (d *Discovery) fetch(ctx context.Context) ([]api.PeerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiscoveryBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var peers []api.PeerInfo
	if err := json.Unmarshal(body, &peers); err != nil {
		return nil, fmt.Errorf("failed to decode peer list: %w", err)
	}
	if peers == nil {
		peers = []api.PeerInfo{}
	}

	return peers, nil
}
