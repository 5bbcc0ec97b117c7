package codec

import "errors"

var (
	// ErrSelfEcho пакет отправлен этим же узлом и вернулся через ретранслятор
	ErrSelfEcho = errors.New("self-echo packet")
	// ErrNoCipher зашифрованный режим без настроенного шифра (нет токена)
	ErrNoCipher = errors.New("encryption is not configured")
	// ErrDecrypt не удалось расшифровать полезную нагрузку (другой токен, порча данных)
	ErrDecrypt = errors.New("failed to decrypt sync payload")
	// ErrMalformed в пакете нет обязательных полей или состояние не разбирается
	ErrMalformed = errors.New("malformed sync packet")
	// ErrUnknownMode неизвестный режим кодирования
	ErrUnknownMode = errors.New("unknown sync mode")
)
