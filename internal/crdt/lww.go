package crdt

import (
	"github.com/iudanet/isync/internal/models"
)

// LWWRegister представляет Last-Write-Wins Register CRDT:
// одно версионированное значение с узлом-источником и timestamp.
// Регистр неизменяем: Update и Merge возвращают регистр-победитель,
// не модифицируя исходный.
type LWWRegister struct {
	NodeID    string       `json:"node_id"`   // NodeID узел, записавший это значение
	Value     models.Value `json:"value"`     // Value значение ключа
	Timestamp float64      `json:"timestamp"` // Timestamp время записи (секунды Unix)
}

// NewLWWRegister создает регистр со значением, записанным узлом nodeID в момент timestamp
func NewLWWRegister(nodeID string, value models.Value, timestamp float64) LWWRegister {
	return LWWRegister{
		NodeID:    nodeID,
		Value:     value,
		Timestamp: timestamp,
	}
}

// Update пытается записать value от имени узла writer в момент timestamp.
// Запись принимается, если timestamp больше текущего, либо timestamp равен
// и writer лексикографически больше текущего NodeID.
// Иначе возвращается исходный регистр без изменений.
func (r LWWRegister) Update(writer string, value models.Value, timestamp float64) LWWRegister {
	if timestamp > r.Timestamp || (timestamp == r.Timestamp && writer > r.NodeID) {
		return NewLWWRegister(writer, value, timestamp)
	}
	return r
}

// Merge объединяет регистр с другим регистром и возвращает победителя.
// Операция коммутативна, ассоциативна и идемпотентна.
func (r LWWRegister) Merge(other LWWRegister) LWWRegister {
	if other.IsNewerThan(r) {
		return other
	}
	return r
}

// IsNewerThan сравнивает два регистра по правилу LWW:
// 1. Сначала сравнивается Timestamp (больший выигрывает)
// 2. При равных Timestamp сравнивается NodeID (лексикографически)
// 3. При равных Timestamp и NodeID сравнивается каноническое JSON значение,
// чтобы слияние оставалось детерминированным даже при сбое часов узла
func (r LWWRegister) IsNewerThan(other LWWRegister) bool {
	if r.Timestamp != other.Timestamp {
		return r.Timestamp > other.Timestamp
	}
	if r.NodeID != other.NodeID {
		return r.NodeID > other.NodeID
	}
	return r.Value.Canonical() > other.Value.Canonical()
}

// Equal проверяет полное совпадение двух регистров
func (r LWWRegister) Equal(other LWWRegister) bool {
	return r.NodeID == other.NodeID &&
		r.Timestamp == other.Timestamp &&
		r.Value.Equal(other.Value)
}
