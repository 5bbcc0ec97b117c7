package node

import "errors"

var (
	// ErrPlaintextRejected узел-владелец токена принимает только зашифрованные пакеты
	ErrPlaintextRejected = errors.New("plaintext sync packet rejected")
	// ErrDuplicate пакет уже был обработан (петля пересылки)
	ErrDuplicate = errors.New("duplicate sync packet")
	// ErrFieldDeleted поле удалено и не может быть записано снова
	ErrFieldDeleted = errors.New("field is deleted")
	// ErrFieldNotFound поле не найдено ни в хранилище, ни в состоянии синхронизации
	ErrFieldNotFound = errors.New("field not found")
	// ErrInvalidField некорректное имя таблицы, id записи или имя поля
	ErrInvalidField = errors.New("invalid field path")
	// ErrInvalidOptions неполная конфигурация узла
	ErrInvalidOptions = errors.New("invalid node options")
)
