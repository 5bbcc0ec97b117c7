package crdt

import (
	"encoding/json"
	"sort"
)

// GSet представляет Grow-only Set CRDT.
// Элементы только добавляются; слияние - объединение множеств.
// Используется для tombstone-ов удаленных ключей.
type GSet struct {
	elements map[string]struct{}
}

// GSetData формат сериализации GSet: {"elements": [...]}
type GSetData struct {
	Elements []string `json:"elements"`
}

// NewGSet создает множество с заданными элементами
func NewGSet(elements ...string) *GSet {
	s := &GSet{elements: make(map[string]struct{}, len(elements))}
	for _, e := range elements {
		s.elements[e] = struct{}{}
	}
	return s
}

// Add добавляет элемент. Повторное добавление ничего не меняет.
// Нулевое значение GSet готово к использованию.
func (s *GSet) Add(element string) {
	if s.elements == nil {
		s.elements = make(map[string]struct{})
	}
	s.elements[element] = struct{}{}
}

// Contains проверяет наличие элемента
func (s *GSet) Contains(element string) bool {
	_, ok := s.elements[element]
	return ok
}

// Merge возвращает новое множество - объединение s и other.
// Ни один из операндов не изменяется.
func (s *GSet) Merge(other *GSet) *GSet {
	out := &GSet{elements: make(map[string]struct{}, len(s.elements)+len(other.elements))}
	for e := range s.elements {
		out.elements[e] = struct{}{}
	}
	for e := range other.elements {
		out.elements[e] = struct{}{}
	}
	return out
}

// Elements возвращает отсортированный список элементов (никогда не nil)
func (s *GSet) Elements() []string {
	out := make([]string, 0, len(s.elements))
	for e := range s.elements {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Len возвращает количество элементов
func (s *GSet) Len() int {
	return len(s.elements)
}

// Clone создает независимую копию множества
func (s *GSet) Clone() *GSet {
	return NewGSet(s.Elements()...)
}

// MarshalJSON сериализует множество как {"elements": [...]} с отсортированными элементами
func (s *GSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(GSetData{Elements: s.Elements()})
}

// UnmarshalJSON десериализует множество из {"elements": [...]}
func (s *GSet) UnmarshalJSON(data []byte) error {
	var raw GSetData
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = *NewGSet(raw.Elements...)
	return nil
}
