package peer

import (
	"context"

	"github.com/iudanet/isync/pkg/api"
)

// Disposition результат обработки входящего пакета sync_data
type Disposition int

const (
	// DispositionDropped пакет отброшен (эхо, чужой режим, ошибка расшифровки)
	DispositionDropped Disposition = iota
	// DispositionMerged состояние пира слито с локальным
	DispositionMerged
	// DispositionForward пакет нужно переслать остальным пирам как есть
	DispositionForward
)

// String возвращает имя результата для логов и истории
func (d Disposition) String() string {
	switch d {
	case DispositionMerged:
		return "merged"
	case DispositionForward:
		return "forward"
	default:
		return "dropped"
	}
}

// Origin описывает соединение, через которое пришел пакет
type Origin struct {
	NodeID string // NodeID идентификатор пира из рукопожатия
	URL    string // URL адрес пира
	Mode   string // Mode режим соединения (api.ModeEncrypted / api.ModePlain)
}

// Engine локальная сторона синхронизации, которой сессии отдают входящие
// пакеты и у которой берут исходящие. Реализуется node.Node.
//
//go:generate moq -out engine_mock.go . Engine
type Engine interface {
	NodeID() string
	// Envelope строит пакет sync_data с текущим состоянием в режиме mode
	Envelope(ctx context.Context, mode string) (*api.SyncEnvelope, error)
	// HandleSyncData обрабатывает входящий пакет под блокировкой узла
	HandleSyncData(ctx context.Context, env *api.SyncEnvelope, from Origin) (Disposition, error)
	// StageLocalChanges переносит локальные изменения хранилища в состояние синхронизации
	StageLocalChanges(ctx context.Context) (bool, error)
}
