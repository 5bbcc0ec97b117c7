package crdt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/iudanet/isync/internal/models"
)

// ErrMalformedState возвращается при десериализации состояния без обязательных полей
var ErrMalformedState = errors.New("malformed sync state")

// StateData формат сериализации SyncState.
// Кодирование детерминировано: ключи карт сортируются encoding/json,
// элементы deleted_keys отсортированы, поэтому decode/encode дает те же байты.
type StateData struct {
	VectorClock VectorClock            `json:"vector_clock"`
	Registers   map[string]LWWRegister `json:"lww_registers"`
	NodeID      string                 `json:"node_id"`
	DeletedKeys GSetData               `json:"deleted_keys"`
}

// Option настраивает SyncState
type Option func(*SyncState)

// WithClock задает источник wall-clock времени для timestamp регистров.
// Используется в тестах для детерминированных timestamp.
func WithClock(now func() float64) Option {
	return func(s *SyncState) {
		if now != nil {
			s.now = now
		}
	}
}

// SyncState представляет состояние синхронизации одного узла:
// векторные часы, LWW регистры по ключам-путям и G-Set удаленных ключей.
// Инвариант: ключ из deleted после любого слияния отсутствует в registers.
type SyncState struct {
	clock     VectorClock
	registers map[string]LWWRegister
	deleted   *GSet
	now       func() float64
	nodeID    string
	mu        sync.RWMutex
}

// NewSyncState создает пустое состояние для узла nodeID
func NewSyncState(nodeID string, opts ...Option) *SyncState {
	s := &SyncState{
		nodeID:    nodeID,
		clock:     NewVectorClock(nodeID),
		registers: make(map[string]LWWRegister),
		deleted:   NewGSet(),
		now:       WallClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NodeID возвращает идентификатор узла-владельца состояния
func (s *SyncState) NodeID() string {
	return s.nodeID
}

// SetValue записывает значение ключа от имени локального узла.
// Увеличивает собственный счетчик часов и ставит текущее wall-clock время.
// Регистр, записанный другим узлом с более поздним timestamp, сохраняется
// (правило LWW). Для собственного регистра timestamp не убывает: если часы
// не ушли вперед, берется следующее представимое float64 значение.
// Возвращает false для ключей с tombstone: удаление не воскрешается.
func (s *SyncState) SetValue(key string, value models.Value) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleted.Contains(key) {
		return false
	}

	s.clock.Tick(s.nodeID)
	timestamp := s.now()

	existing, exists := s.registers[key]
	if !exists {
		s.registers[key] = NewLWWRegister(s.nodeID, value, timestamp)
		return true
	}

	if existing.NodeID == s.nodeID && timestamp <= existing.Timestamp {
		timestamp = math.Nextafter(existing.Timestamp, math.Inf(1))
	}
	s.registers[key] = existing.Update(s.nodeID, value, timestamp)
	return true
}

// DeleteKey помечает ключ удаленным и сразу удаляет его регистр
func (s *SyncState) DeleteKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Tick(s.nodeID)
	s.deleted.Add(key)
	delete(s.registers, key)
}

// GetValue возвращает значение ключа.
// Второй результат false, если ключ удален или никогда не записывался.
func (s *SyncState) GetValue(key string) (models.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.deleted.Contains(key) {
		return models.Null(), false
	}

	reg, ok := s.registers[key]
	if !ok {
		return models.Null(), false
	}
	return reg.Value, true
}

// Register возвращает регистр ключа, если он есть
func (s *SyncState) Register(key string) (LWWRegister, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.registers[key]
	return reg, ok
}

// IsDeleted проверяет наличие tombstone для ключа
func (s *SyncState) IsDeleted(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.deleted.Contains(key)
}

// Merge объединяет состояние другого узла с текущим:
// 1. Поэлементный максимум векторных часов и инкремент собственного счетчика
// 2. Для каждого удаленного регистра - LWW слияние с локальным или принятие как есть
// 3. Объединение множеств удаленных ключей
// 4. Удаление из registers всех ключей с tombstone (удаление всегда выигрывает)
// Допускается s.Merge(s).
func (s *SyncState) Merge(other *SyncState) {
	if other == nil {
		return
	}
	// Снимок другого состояния берется до блокировки текущего,
	// иначе s.Merge(s) привел бы к взаимоблокировке
	s.MergeData(other.ToData())
}

// MergeData объединяет сериализованное состояние другого узла с текущим
func (s *SyncState) MergeData(data StateData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Update(s.nodeID, data.VectorClock)

	for key, otherReg := range data.Registers {
		if existing, ok := s.registers[key]; ok {
			s.registers[key] = existing.Merge(otherReg)
			continue
		}
		s.registers[key] = otherReg
	}

	s.deleted = s.deleted.Merge(NewGSet(data.DeletedKeys.Elements...))

	for _, key := range s.deleted.Elements() {
		delete(s.registers, key)
	}
}

// Clock возвращает копию векторных часов
func (s *SyncState) Clock() VectorClock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clock.Copy()
}

// Registers возвращает копию карты регистров
func (s *SyncState) Registers() map[string]LWWRegister {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]LWWRegister, len(s.registers))
	for k, v := range s.registers {
		out[k] = v
	}
	return out
}

// Deleted возвращает отсортированный список удаленных ключей
func (s *SyncState) Deleted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.deleted.Elements()
}

// Len возвращает количество живых регистров
func (s *SyncState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.registers)
}

// DeletedLen возвращает количество tombstone-ов
func (s *SyncState) DeletedLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.deleted.Len()
}

// ToData возвращает независимый снимок состояния для сериализации
func (s *SyncState) ToData() StateData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registers := make(map[string]LWWRegister, len(s.registers))
	for k, v := range s.registers {
		registers[k] = v
	}

	return StateData{
		NodeID:      s.nodeID,
		VectorClock: s.clock.Copy(),
		Registers:   registers,
		DeletedKeys: GSetData{Elements: s.deleted.Elements()},
	}
}

// FromData восстанавливает состояние из сериализованного снимка
func FromData(data StateData, opts ...Option) (*SyncState, error) {
	if data.NodeID == "" {
		return nil, fmt.Errorf("%w: node_id is required", ErrMalformedState)
	}
	if data.VectorClock == nil {
		return nil, fmt.Errorf("%w: vector_clock is required", ErrMalformedState)
	}
	if data.Registers == nil {
		return nil, fmt.Errorf("%w: lww_registers is required", ErrMalformedState)
	}

	s := NewSyncState(data.NodeID, opts...)
	s.clock = data.VectorClock.Copy()
	for k, v := range data.Registers {
		s.registers[k] = v
	}
	s.deleted = NewGSet(data.DeletedKeys.Elements...)

	return s, nil
}

// MarshalJSON сериализует состояние в формат
// {node_id, vector_clock, lww_registers, deleted_keys}
func (s *SyncState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToData())
}

// UnmarshalJSON заменяет содержимое состояния десериализованным снимком.
// Источник времени сохраняется.
func (s *SyncState) UnmarshalJSON(data []byte) error {
	var raw StateData
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	restored, err := FromData(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodeID = restored.nodeID
	s.clock = restored.clock
	s.registers = restored.registers
	s.deleted = restored.deleted
	if s.now == nil {
		s.now = WallClock
	}
	return nil
}

// Decode разбирает JSON состояние другого узла
func Decode(data []byte, opts ...Option) (*SyncState, error) {
	var raw StateData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return FromData(raw, opts...)
}
