package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidValue возвращается, когда значение не представимо в JSON
// (NaN, Inf, неподдерживаемый Go тип и т.д.)
var ErrInvalidValue = errors.New("invalid value")

// Kind тип варианта Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String возвращает имя варианта для логов и ошибок
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value представляет JSON значение поля записи в виде tagged union.
// Нулевое значение Value - это JSON null.
// Значения неизменяемы: конструкторы копируют переданные срезы и карты.
type Value struct {
	obj  map[string]Value
	str  string
	arr  []Value
	num  float64
	kind Kind
	b    bool
}

// Null возвращает JSON null
func Null() Value { return Value{} }

// Bool создает булево значение
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number создает числовое значение
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String создает строковое значение
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array создает массив значений
func Array(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// Object создает вложенный объект
func Object(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind возвращает вариант значения
func (v Value) Kind() Kind { return v.kind }

// IsNull проверяет, является ли значение JSON null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool возвращает булево значение и признак совпадения варианта
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber возвращает число и признак совпадения варианта
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString возвращает строку и признак совпадения варианта
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsArray возвращает копию массива и признак совпадения варианта
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	arr := make([]Value, len(v.arr))
	copy(arr, v.arr)
	return arr, true
}

// AsObject возвращает копию объекта и признак совпадения варианта
func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	obj := make(map[string]Value, len(v.obj))
	for k, val := range v.obj {
		obj[k] = val
	}
	return obj, true
}

// Equal сравнивает два значения структурно
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, val := range v.obj {
			otherVal, ok := other.obj[k]
			if !ok || !val.Equal(otherVal) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Validate проверяет, что значение представимо в JSON.
// Number не проверяет аргумент, поэтому NaN и Inf ловятся здесь.
func (v Value) Validate() error {
	switch v.kind {
	case KindNull, KindBool, KindString:
		return nil
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return fmt.Errorf("%w: non-finite number", ErrInvalidValue)
		}
		return nil
	case KindArray:
		for i, item := range v.arr {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil
	case KindObject:
		for k, item := range v.obj {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("field %q: %w", k, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidValue, v.kind)
	}
}

// Canonical возвращает детерминированное JSON представление значения.
// Ключи объектов отсортированы, поэтому равные значения дают равные строки.
func (v Value) Canonical() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// Interface конвертирует Value обратно в обычные Go типы
// (nil, bool, float64, string, []any, map[string]any)
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromAny валидирует произвольное Go значение и превращает его в Value.
// Используется на границе проектора: данные из хранилища не считаются доверенными.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return numberValue(x)
	case float32:
		return numberValue(float64(x))
	case int:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return numberValue(f)
	case []any:
		arr := make([]Value, 0, len(x))
		for i, item := range x {
			val, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			arr = append(arr, val)
		}
		return Value{kind: KindArray, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, item := range x {
			val, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			obj[k] = val
		}
		return Value{kind: KindObject, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, raw)
	}
}

// MustValue как FromAny, но паникует при ошибке. Только для тестов и констант.
func MustValue(raw any) Value {
	v, err := FromAny(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func numberValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: non-finite number", ErrInvalidValue)
	}
	return Number(f), nil
}

// MarshalJSON сериализует значение; ключи объектов сортируются
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			data, err := v.obj[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", ErrInvalidValue, v.kind)
	}
}

// UnmarshalJSON десериализует и валидирует значение
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	val, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
