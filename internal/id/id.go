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

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed a PRNG from crypto/rand so ULID entropy is unpredictable.
	// ulid.Monotonic keeps IDs generated within the same millisecond
	// lexicographically increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewRun returns a ULID string used to tag one backtest run.
//
// ULIDs are lexicographically sortable by generation time, which makes them
// ideal for journaling records and SQLite indexes.
func NewRun() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Errors are extremely unlikely unless time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}

// Sequence hands out small integer IDs (lot IDs, order IDs) scoped to one
// simulation run. It is owned by the run that created it and is never shared
// across runs, so two runs over the same data produce identical ID streams.
type Sequence struct {
	next int
}

// NewSequence returns a sequence whose first Next() is 1.
func NewSequence() *Sequence { return &Sequence{next: 1} }

func (s *Sequence) Next() int {
	n := s.next
	s.next++
	return n
}
