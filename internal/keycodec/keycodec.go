package keycodec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// KeyBytes — 128 бит энтропии на ключ.
const KeyBytes = 16

const groupLen = 4

// Generate выдаёт новый лицензионный ключ: 8 групп по 4 hex-символа
// в верхнем регистре через дефис (XXXX-XXXX-...-XXXX).
func Generate() (string, error) {
	raw := make([]byte, KeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("keycodec: read entropy: %w", err)
	}
	hexed := strings.ToUpper(hex.EncodeToString(raw))
	groups := make([]string, 0, len(hexed)/groupLen)
	for i := 0; i < len(hexed); i += groupLen {
		groups = append(groups, hexed[i:i+groupLen])
	}
	return strings.Join(groups, "-"), nil
}

// Fingerprint — sha256 от UTF-8 байт ключа, hex в нижнем регистре.
// Единственное представление ключа на стороне сервера.
func Fingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
