// Package api HTTP клиент административного API узла, используется командами CLI
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/pkg/api"
)

// DefaultTimeout таймаут одного запроса к узлу
const DefaultTimeout = 30 * time.Second

// Client представляет HTTP клиент для взаимодействия с узлом
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetAccessToken задает JWT для административных запросов
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// Health проверяет доступность узла
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Status получает состояние синхронизации узла
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var resp api.StatusResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return &resp, nil
}

// Login обменивает административный секрет на JWT и запоминает его
func (c *Client) Login(ctx context.Context, secret string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/token", api.TokenRequest{Secret: secret}, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	c.accessToken = resp.AccessToken
	return &resp, nil
}

// SyncNow запускает немедленную синхронизацию со всеми пирами
func (c *Client) SyncNow(ctx context.Context) (*api.SyncNowResponse, error) {
	var resp api.SyncNowResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync", nil, &resp); err != nil {
		return nil, fmt.Errorf("sync request failed: %w", err)
	}
	return &resp, nil
}

// History получает последние limit записей журнала синхронизации
func (c *Client) History(ctx context.Context, limit int) (*api.HistoryResponse, error) {
	path := "/api/v1/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp api.HistoryResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	return &resp, nil
}

// Peers получает подключенные и сохраненные пиры
func (c *Client) Peers(ctx context.Context) (*api.PeersResponse, error) {
	var resp api.PeersResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/peers", nil, &resp); err != nil {
		return nil, fmt.Errorf("peers request failed: %w", err)
	}
	return &resp, nil
}

// AddPeer сохраняет пир и подключается к нему
func (c *Client) AddPeer(ctx context.Context, req api.AddPeerRequest) (*api.AddPeerResponse, error) {
	var resp api.AddPeerResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/peers", req, &resp); err != nil {
		return nil, fmt.Errorf("add peer request failed: %w", err)
	}
	return &resp, nil
}

// Records получает снимок хранилища записей
func (c *Client) Records(ctx context.Context) (models.Snapshot, error) {
	var resp models.Snapshot
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/records", nil, &resp); err != nil {
		return nil, fmt.Errorf("records request failed: %w", err)
	}
	if resp == nil {
		resp = models.Snapshot{}
	}
	return resp, nil
}

// SetField записывает значение поля записи
func (c *Client) SetField(ctx context.Context, table, recordID, field string, value models.Value) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	req := api.SetFieldRequest{Value: raw}
	if err := c.doRequest(ctx, http.MethodPut, fieldPath(table, recordID, field), req, nil); err != nil {
		return fmt.Errorf("set field request failed: %w", err)
	}
	return nil
}

// DeleteField удаляет поле записи
func (c *Client) DeleteField(ctx context.Context, table, recordID, field string) error {
	if err := c.doRequest(ctx, http.MethodDelete, fieldPath(table, recordID, field), nil, nil); err != nil {
		return fmt.Errorf("delete field request failed: %w", err)
	}
	return nil
}

func fieldPath(table, recordID, field string) string {
	return "/api/v1/records/" + url.PathEscape(table) + "/" + url.PathEscape(recordID) + "/" + url.PathEscape(field)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			if errResp.Message != "" {
				return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
			}
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
