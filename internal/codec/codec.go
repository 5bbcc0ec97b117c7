// Package codec упаковывает состояние синхронизации в пакеты sync_data
// и распаковывает входящие пакеты, при необходимости шифруя полезную нагрузку.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/isync/internal/crdt"
	"github.com/iudanet/isync/internal/crypto"
	"github.com/iudanet/isync/internal/models"
	"github.com/iudanet/isync/pkg/api"
)

// Option настраивает Codec
type Option func(*Codec)

// WithClock задает источник времени для поля timestamp пакета
func WithClock(now func() float64) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec кодирует и декодирует пакеты одного узла.
// Без шифра (узел-ретранслятор) доступен только режим plain.
type Codec struct {
	cipher     crypto.Cipher
	now        func() float64
	nodeID     string
	sourceType string
}

// New создает кодек узла nodeID. cipher может быть nil.
func New(nodeID string, role models.Role, cipher crypto.Cipher, opts ...Option) *Codec {
	sourceType := api.SourceTypeRelay
	if role == models.RoleControl {
		sourceType = api.SourceTypeControl
	}

	c := &Codec{
		cipher:     cipher,
		now:        crdt.WallClock,
		nodeID:     nodeID,
		sourceType: sourceType,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NodeID возвращает идентификатор локального узла
func (c *Codec) NodeID() string {
	return c.nodeID
}

// SourceType возвращает значение source_type исходящих пакетов
func (c *Codec) SourceType() string {
	return c.sourceType
}

// CanDecrypt сообщает, настроен ли шифр
func (c *Codec) CanDecrypt() bool {
	return c.cipher != nil
}

// Suite возвращает имя набора шифров или пустую строку
func (c *Codec) Suite() string {
	if c.cipher == nil {
		return ""
	}
	return c.cipher.Suite()
}

// Encrypt шифрует JSON и возвращает Base64
func (c *Codec) Encrypt(plain []byte) (string, error) {
	if c.cipher == nil {
		return "", ErrNoCipher
	}

	encoded, err := crypto.EncryptToBase64(c.cipher, plain)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt sync payload: %w", err)
	}
	return encoded, nil
}

// Decrypt расшифровывает Base64 полезную нагрузку.
// Ошибка не фатальна: вызывающий отбрасывает пакет.
func (c *Codec) Decrypt(encoded string) ([]byte, error) {
	if c.cipher == nil {
		return nil, ErrNoCipher
	}

	plain, err := crypto.DecryptFromBase64(c.cipher, encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plain, nil
}

// Encode строит пакет sync_data из снимка состояния.
// mode api.ModeEncrypted требует шифр, api.ModePlain кладет состояние в data как есть.
func (c *Codec) Encode(data crdt.StateData, mode string) (*api.SyncEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync state: %w", err)
	}

	env := &api.SyncEnvelope{
		SourceNode: c.nodeID,
		SourceType: c.sourceType,
		Timestamp:  c.now(),
	}

	switch mode {
	case api.ModeEncrypted:
		encrypted, err := c.Encrypt(payload)
		if err != nil {
			return nil, err
		}
		env.Encrypted = true
		env.EncryptedData = encrypted
	case api.ModePlain:
		env.Data = payload
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	return env, nil
}

// CheckOrigin проверяет заголовок пакета без расшифровки:
// наличие source_node и отсутствие эха собственного пакета.
func (c *Codec) CheckOrigin(env *api.SyncEnvelope) error {
	if env == nil || env.SourceNode == "" {
		return fmt.Errorf("%w: source_node is required", ErrMalformed)
	}
	if env.SourceNode == c.nodeID {
		return ErrSelfEcho
	}
	return nil
}

// Decode распаковывает входящий пакет в состояние удаленного узла.
// Эхо собственного пакета отбрасывается до любой попытки расшифровки.
func (c *Codec) Decode(env *api.SyncEnvelope) (*crdt.SyncState, error) {
	if err := c.CheckOrigin(env); err != nil {
		return nil, err
	}

	var payload []byte
	if env.Encrypted {
		if env.EncryptedData == "" {
			return nil, fmt.Errorf("%w: encrypted_data is required", ErrMalformed)
		}
		plain, err := c.Decrypt(env.EncryptedData)
		if err != nil {
			return nil, err
		}
		payload = plain
	} else {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return nil, fmt.Errorf("%w: data is required", ErrMalformed)
		}
		payload = env.Data
	}

	state, err := crdt.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return state, nil
}
