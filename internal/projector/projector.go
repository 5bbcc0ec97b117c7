// Package projector отображает плоское состояние синхронизации (ключи-пути
// table.record_id.field) на вложенные таблицы хранилища записей и обратно.
package projector

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iudanet/isync/internal/crdt"
	"github.com/iudanet/isync/internal/models"
)

// Значения фильтра по умолчанию
const (
	DefaultTable  = "config"
	DefaultMarker = "._id."
)

// ErrInvalidPath возвращается для пути, который нельзя разобрать как table.record_id.field
var ErrInvalidPath = errors.New("invalid sync path")

// Filter определяет подмножество хранилища, которое участвует в синхронизации.
// Путь синхронизируется, если начинается с "Table." и содержит подстроку Marker.
// Пустой Marker означает все записи таблицы.
type Filter struct {
	Table  string `yaml:"table"`
	Marker string `yaml:"marker"`
}

// DefaultFilter возвращает фильтр config + ._id.
func DefaultFilter() Filter {
	return Filter{Table: DefaultTable, Marker: DefaultMarker}
}

// Projector переносит изменения между хранилищем записей и SyncState.
// Сам Projector не хранит состояния и безопасен для конкурентного использования;
// последовательность чтение-изменение-запись сериализует вызывающий.
type Projector struct {
	filter Filter
	prefix string
}

// New создает проектор. Пустое имя таблицы заменяется на DefaultTable.
func New(filter Filter) *Projector {
	if filter.Table == "" {
		filter.Table = DefaultTable
	}
	return &Projector{
		filter: filter,
		prefix: filter.Table + ".",
	}
}

// Filter возвращает действующий фильтр
func (p *Projector) Filter() Filter {
	return p.filter
}

// ShouldSync проверяет, пересекает ли путь границу синхронизации
func (p *Projector) ShouldSync(path string) bool {
	return strings.HasPrefix(path, p.prefix) && strings.Contains(path, p.filter.Marker)
}

// Path строит ключ-путь для поля записи синхронизируемой таблицы
func (p *Projector) Path(recordID, field string) string {
	return p.prefix + recordID + "." + field
}

// ParsePath разбирает путь на id записи и имя поля.
// id записи может содержать точки, имя поля - нет: поле - все после последней точки.
func (p *Projector) ParsePath(path string) (recordID, field string, err error) {
	rest, ok := strings.CutPrefix(path, p.prefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q outside table %q", ErrInvalidPath, path, p.filter.Table)
	}

	idx := strings.LastIndexByte(rest, '.')
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	return rest[:idx], rest[idx+1:], nil
}

// ExtractAndApply проходит по синхронизируемой таблице снимка и записывает
// в state каждое поле, значение которого отличается от текущего.
// Пути с tombstone пропускаются: устаревшая локальная копия не воскрешает удаление.
// Поля с точкой в имени не синхронизируются, так как путь к ним неоднозначен.
// Возвращает true, если хотя бы одно изменение попало в state.
func (p *Projector) ExtractAndApply(state *crdt.SyncState, snapshot models.Snapshot) (bool, error) {
	table, ok := snapshot[p.filter.Table]
	if !ok {
		return false, nil
	}

	changed := false
	for _, recordID := range sortedKeys(table) {
		record := table[recordID]
		for _, field := range sortedKeys(record) {
			if strings.Contains(field, ".") {
				continue
			}

			path := p.Path(recordID, field)
			if !p.ShouldSync(path) || state.IsDeleted(path) {
				continue
			}

			value := record[field]
			if err := value.Validate(); err != nil {
				return changed, fmt.Errorf("failed to extract %s: %w", path, err)
			}

			current, exists := state.GetValue(path)
			if exists && current.Equal(value) {
				continue
			}

			if state.SetValue(path, value) {
				changed = true
			}
		}
	}

	return changed, nil
}

// ProjectBack возвращает новый снимок, в который записаны значения всех живых
// регистров синхронизируемой таблицы. Отсутствующие записи создаются как {id: record_id}.
// Поля, путь которых удален (tombstone), убираются из записей.
// Исходный снимок не изменяется; повторная проекция без изменений state дает тот же снимок.
func (p *Projector) ProjectBack(state *crdt.SyncState, snapshot models.Snapshot) models.Snapshot {
	out := snapshot.Clone()

	table := out[p.filter.Table]
	if table == nil {
		table = make(models.Table)
		out[p.filter.Table] = table
	}

	registers := state.Registers()
	for _, path := range sortedKeys(registers) {
		if !p.ShouldSync(path) || state.IsDeleted(path) {
			continue
		}

		recordID, field, err := p.ParsePath(path)
		if err != nil {
			continue
		}

		record, ok := table[recordID]
		if !ok {
			record = models.Record{models.RecordIDField: models.String(recordID)}
			table[recordID] = record
		}
		record[field] = registers[path].Value
	}

	for _, path := range state.Deleted() {
		if !p.ShouldSync(path) {
			continue
		}

		recordID, field, err := p.ParsePath(path)
		if err != nil {
			continue
		}

		if record, ok := table[recordID]; ok {
			delete(record, field)
		}
	}

	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
