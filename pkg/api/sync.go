package api

import "encoding/json"

// События транспортного протокола между пирами
const (
	EventPeerHandshake     = "peer_handshake"
	EventHandshakeResponse = "handshake_response"
	EventSyncData          = "sync_data"
	EventRequestSync       = "request_sync" // EventRequestSync просьба пира разослать состояние всем пирам
)

// Статусы ответа на рукопожатие
const (
	HandshakeAccepted = "accepted"
	HandshakeRejected = "rejected"
)

// Тип узла-источника пакета синхронизации
const (
	SourceTypeControl = "iControl" // узел-владелец токена, пакеты всегда зашифрованы
	SourceTypeRelay   = "peer"     // узел-ретранслятор, пакеты без шифрования
)

// Режим соединения с пиром
const (
	ModeEncrypted = "encrypted"
	ModePlain     = "plain"
)

// Frame представляет одно сообщение транспорта: имя события и его данные
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// HandshakeRequest отправляется инициатором соединения сразу после подключения
type HandshakeRequest struct {
	NodeID string `json:"node_id"` // NodeID идентификатор узла-инициатора
}

// HandshakeResponse ответ принимающей стороны на рукопожатие
type HandshakeResponse struct {
	NodeID string `json:"node_id"` // NodeID идентификатор принимающего узла
	Status string `json:"status"`  // Status "accepted" или причина отказа
}

// SyncEnvelope представляет пакет sync_data.
// В зашифрованном режиме заполнено EncryptedData (Base64), иначе Data
// содержит состояние {node_id, vector_clock, lww_registers, deleted_keys}.
type SyncEnvelope struct {
	Encrypted     bool            `json:"_encrypted"`
	SourceNode    string          `json:"source_node"`
	SourceType    string          `json:"source_type"`
	Timestamp     float64         `json:"timestamp"`
	EncryptedData string          `json:"encrypted_data,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}
