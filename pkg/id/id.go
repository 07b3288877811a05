// Package id mints the identifiers journal records are keyed by: trade IDs
// and goal IDs. ULIDs sort lexicographically by mint time, which keeps the
// store's primary-key indexes in insertion order and makes raw listings read
// chronologically.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// minter serializes access to one monotonic entropy source, so IDs minted
// within the same millisecond still come out in mint order.
type minter struct {
	mu      sync.Mutex
	entropy io.Reader
}

var std = newMinter()

func newMinter() *minter {
	// Seed the PRNG from crypto/rand so the random component is
	// unpredictable across runs.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &minter{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

func (m *minter) next() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), m.entropy)
	if err != nil {
		// Only possible if time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}

// New returns a fresh record identifier.
func New() string {
	return std.next()
}

// MintTime recovers the embedded mint timestamp from an identifier, in UTC.
func MintTime(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()).UTC(), nil
}
