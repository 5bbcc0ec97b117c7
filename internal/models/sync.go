package models

import "time"

// Role роль узла в сети синхронизации
type Role string

const (
	// RoleControl узел-владелец токена: шифрует исходящие данные и принимает только зашифрованные
	RoleControl Role = "control"
	// RoleRelay узел-ретранслятор: никогда не расшифровывает, хранит и пересылает
	RoleRelay Role = "relay"
)

// Valid проверяет, что роль известна
func (r Role) Valid() bool {
	return r == RoleControl || r == RoleRelay
}

// Направление и статус записей истории синхронизации
const (
	DirectionIn  = "in"
	DirectionOut = "out"

	HistoryStatusSuccess = "success"
	HistoryStatusDropped = "dropped"
	HistoryStatusError   = "error"
)

// HistoryEntry представляет одну запись журнала синхронизации.
// Журнал информационный: потеря записей не влияет на сходимость.
type HistoryEntry struct {
	CreatedAt  time.Time `json:"created_at"`   // CreatedAt время события
	ID         string    `json:"id"`           // ID уникальный идентификатор записи (UUID)
	PeerNodeID string    `json:"peer_node_id"` // PeerNodeID node_id источника/получателя пакета
	PeerURL    string    `json:"peer_url"`     // PeerURL адрес соединения, через которое прошел пакет
	Direction  string    `json:"direction"`    // Direction "in" или "out"
	Status     string    `json:"status"`       // Status "success", "dropped" или "error"
	Detail     string    `json:"detail"`       // Detail причина отбрасывания или текст ошибки
}

// SavedPeer представляет пир, сохраненный оператором для повторных подключений
type SavedPeer struct {
	AddedAt  time.Time `json:"added_at"` // AddedAt время добавления
	URL      string    `json:"url"`      // URL адрес пира
	Name     string    `json:"name"`     // Name отображаемое имя
	Mode     string    `json:"mode"`     // Mode режим соединения: "encrypted" или "plain"
	Verified bool      `json:"verified"` // Verified пир подтвержден оператором
}
