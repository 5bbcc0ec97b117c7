package models

// Record представляет одну запись таблицы: поле -> значение.
// Поле "id" дублирует ключ записи в таблице.
type Record map[string]Value

// Table представляет таблицу хранилища: id записи -> запись
type Table map[string]Record

// Snapshot представляет полный снимок хранилища записей: имя таблицы -> таблица.
// Хранилище отдает и принимает только целые снимки, без частичных патчей.
type Snapshot map[string]Table

// RecordIDField имя поля, в котором запись хранит собственный id
const RecordIDField = "id"

// Clone создает глубокую копию записи.
// Value неизменяемы, поэтому копируются только карты.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Clone создает глубокую копию таблицы
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for id, rec := range t {
		out[id] = rec.Clone()
	}
	return out
}

// Clone создает глубокую копию снимка
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for name, table := range s {
		out[name] = table.Clone()
	}
	return out
}

// Equal сравнивает два снимка структурно
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for name, table := range s {
		otherTable, ok := other[name]
		if !ok || len(table) != len(otherTable) {
			return false
		}
		for id, rec := range table {
			otherRec, ok := otherTable[id]
			if !ok || len(rec) != len(otherRec) {
				return false
			}
			for field, val := range rec {
				otherVal, ok := otherRec[field]
				if !ok || !val.Equal(otherVal) {
					return false
				}
			}
		}
	}
	return true
}
