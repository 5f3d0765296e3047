// ABOUTME: Time-bucketed request nonces keyed with BLAKE2b
// ABOUTME: A nonce is valid in the tick it was issued in and the one after, like CMS nonces

package nonce

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"
)

// nonceLength is the number of hex characters in a nonce
const nonceLength = 20

// Manager implements interfaces.NonceManager
type Manager struct {
	key      []byte
	lifetime time.Duration
}

// NewManager creates a manager. secret keys the MAC and must be 1 to 64 bytes;
// lifetime is the longest a nonce stays valid.
func NewManager(secret []byte, lifetime time.Duration) (*Manager, error) {
	if len(secret) == 0 || len(secret) > blake2b.Size {
		return nil, errors.New("nonce secret must be between 1 and 64 bytes")
	}
	if lifetime < 2*time.Second {
		return nil, errors.New("nonce lifetime must be at least 2 seconds")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Manager{key: key, lifetime: lifetime}, nil
}

// tick numbers half-lifetime windows
func (m *Manager) tick(now time.Time) int64 {
	half := int64(m.lifetime / 2 / time.Second)
	return now.Unix()/half + 1
}

func (m *Manager) sign(action string, tick int64) string {
	h, err := blake2b.New256(m.key)
	if err != nil {
		// key length is checked in NewManager
		panic(err)
	}
	h.Write([]byte(strconv.FormatInt(tick, 10)))
	h.Write([]byte{0})
	h.Write([]byte(action))
	return hex.EncodeToString(h.Sum(nil))[:nonceLength]
}

// Create issues a nonce for action at now
func (m *Manager) Create(action string, now time.Time) string {
	return m.sign(action, m.tick(now))
}

// Verify accepts nonces issued for action in the current or previous tick
func (m *Manager) Verify(action, nonce string, now time.Time) bool {
	if len(nonce) != nonceLength {
		return false
	}
	tick := m.tick(now)
	for _, t := range []int64{tick, tick - 1} {
		if subtle.ConstantTimeCompare([]byte(m.sign(action, t)), []byte(nonce)) == 1 {
			return true
		}
	}
	return false
}
