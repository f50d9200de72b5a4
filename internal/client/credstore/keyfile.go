package credstore

import (
	"fmt"
	"os"

	"github.com/avelkov/dreamchat/internal/cryptox"
)

const (
	keyFileSaltLen   = 16
	keyFileSecretLen = 32
)

// LoadKey reads the credential encryption key material from path, creating
// it with a fresh random secret on first run. The file holds salt followed
// by secret and is written with owner-only permissions; the returned key is
// the argon2id stretch of the two.
func LoadKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data = append(cryptox.RandBytes(keyFileSaltLen), cryptox.RandBytes(keyFileSecretLen)...)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return nil, fmt.Errorf("write key file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	if len(data) != keyFileSaltLen+keyFileSecretLen {
		return nil, fmt.Errorf("key file %s is malformed", path)
	}
	salt, secret := data[:keyFileSaltLen], data[keyFileSaltLen:]
	return cryptox.DeriveKey(secret, salt), nil
}
