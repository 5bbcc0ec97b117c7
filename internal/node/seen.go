package node

import (
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iudanet/isync/pkg/api"
)

// DefaultSeenCacheSize число запоминаемых пакетов для подавления петель пересылки
const DefaultSeenCacheSize = 1024

// newSeenCache создает кэш ключей обработанных пакетов.
// ContainsOrAdd не обновляет давность ключа, поэтому вытесняются самые старые.
func newSeenCache(size int) (*lru.Cache[string, struct{}], error) {
	if size <= 0 {
		size = DefaultSeenCacheSize
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create seen cache: %w", err)
	}
	return cache, nil
}

// packetKey идентифицирует пакет по источнику, времени отправки и режиму
func packetKey(env *api.SyncEnvelope) string {
	return env.SourceNode + "|" + strconv.FormatFloat(env.Timestamp, 'g', -1, 64) + "|" + strconv.FormatBool(env.Encrypted)
}
