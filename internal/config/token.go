package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iudanet/isync/internal/iocli"
)

// TokenEnv переменная окружения с общим токеном
const TokenEnv = "ISYNC_TOKEN"

var (
	// ErrTokenRequired control узел запущен без токена и без терминала
	ErrTokenRequired = errors.New("shared token is required for control node")
	// ErrEmptyTokenFile файл токена пуст
	ErrEmptyTokenFile = errors.New("token file is empty")
)

// TokenSources источники общего токена
type TokenSources struct {
	Lookup   LookupFunc // Lookup переменные окружения, nil - os.LookupEnv
	FromFile string     // FromFile путь к файлу с токеном
	FromArgs string     // FromArgs значение флага --token
}

// ResolveToken получает общий токен в порядке приоритета:
// 1. переменная окружения ISYNC_TOKEN
// 2. файл FromFile
// 3. флаг FromArgs
// 4. интерактивный ввод, только если required и stdin терминал
//
// Без required и без явного источника возвращает пустую строку (relay узел).
func ResolveToken(src TokenSources, cli iocli.IO, required bool) (string, error) {
	lookup := src.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if token, ok := lookup(TokenEnv); ok && token != "" {
		return token, nil
	}

	if src.FromFile != "" {
		content, err := os.ReadFile(src.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		// Убираем trailing newline/whitespace
		token := strings.TrimSpace(string(content))
		if token == "" {
			return "", ErrEmptyTokenFile
		}
		return token, nil
	}

	if src.FromArgs != "" {
		return src.FromArgs, nil
	}

	if !required {
		return "", nil
	}

	if cli == nil || !cli.IsInteractive() {
		return "", ErrTokenRequired
	}

	token, err := cli.ReadPassword("Shared token: ")
	if err != nil {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	if token == "" {
		return "", ErrTokenRequired
	}

	return token, nil
}
