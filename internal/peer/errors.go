package peer

import "errors"

var (
	// ErrInvalidPeerURL адрес без схемы или хоста; повторные попытки бессмысленны
	ErrInvalidPeerURL = errors.New("invalid peer url")
	// ErrHandshakeTimeout пир не ответил на рукопожатие вовремя
	ErrHandshakeTimeout = errors.New("handshake timeout")
	// ErrHandshakeRejected пир отклонил рукопожатие
	ErrHandshakeRejected = errors.New("handshake rejected")
	// ErrNotConnected операция требует завершенного рукопожатия
	ErrNotConnected = errors.New("peer session is not connected")
	// ErrSessionClosed сессия уже закрыта
	ErrSessionClosed = errors.New("peer session closed")
	// ErrAlreadyConnected к адресу уже есть активная сессия
	ErrAlreadyConnected = errors.New("peer already connected")
)
