package crdt

import "time"

// VectorClock представляет векторные часы: node_id -> счетчик событий узла.
// Узел увеличивает только собственную запись; при слиянии берется поэлементный максимум.
// Часы носят справочный характер и не влияют на корректность слияния,
// поскольку LWW уже задает полный порядок через (timestamp, node_id).
type VectorClock map[string]int64

// NewVectorClock создает часы с нулевой записью для узла nodeID
func NewVectorClock(nodeID string) VectorClock {
	return VectorClock{nodeID: 0}
}

// Tick увеличивает счетчик узла и возвращает новое значение.
// Используется при создании нового локального события.
func (vc VectorClock) Tick(nodeID string) int64 {
	vc[nodeID]++
	return vc[nodeID]
}

// Update поэлементно объединяет часы с удаленными и затем один раз увеличивает
// собственный счетчик узла: counter[n] = max(local[n], remote[n]); counter[self]++
func (vc VectorClock) Update(nodeID string, remote VectorClock) int64 {
	for node, counter := range remote {
		if counter > vc[node] {
			vc[node] = counter
		}
	}
	return vc.Tick(nodeID)
}

// Get возвращает счетчик узла (0, если узел неизвестен)
func (vc VectorClock) Get(nodeID string) int64 {
	return vc[nodeID]
}

// Descends проверяет, что vc не отстает от other ни по одной записи
func (vc VectorClock) Descends(other VectorClock) bool {
	for node, counter := range other {
		if vc[node] < counter {
			return false
		}
	}
	return true
}

// Concurrent проверяет, что ни одни часы не доминируют над другими
func (vc VectorClock) Concurrent(other VectorClock) bool {
	return !vc.Descends(other) && !other.Descends(vc)
}

// Copy создает независимую копию часов
func (vc VectorClock) Copy() VectorClock {
	out := make(VectorClock, len(vc))
	for node, counter := range vc {
		out[node] = counter
	}
	return out
}

// WallClock возвращает текущее время в секундах Unix с дробной частью.
// Используется как источник timestamp для LWW регистров.
func WallClock() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
