package transport

import "errors"

var (
	// ErrInvalidURL адрес пира без схемы/хоста или с неподдерживаемой схемой
	ErrInvalidURL = errors.New("invalid peer url")
	// ErrClosed операция над закрытым соединением
	ErrClosed = errors.New("connection closed")
)
