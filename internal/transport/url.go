package transport

import (
	"fmt"
	"net/url"
)

// DefaultPath путь websocket эндпоинта пира, если в адресе путь не указан
const DefaultPath = "/api/v1/peer"

// NormalizeURL приводит адрес пира к websocket адресу:
// http -> ws, https -> wss, пустой путь -> DefaultPath.
// Адрес без схемы или хоста отклоняется сразу, без попыток подключения.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q must have scheme and host", ErrInvalidURL, raw)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = DefaultPath
	}
	u.Fragment = ""

	return u.String(), nil
}
