package borica

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// OrderSequence issues 6-digit order ids from an atomic counter seeded at a
// random offset. Ids are unique within one process lifetime but not across
// restarts; the gateway only requires uniqueness per merchant per day.
type OrderSequence struct {
	counter atomic.Uint64
}

func NewOrderSequence() *OrderSequence {
	var seed [8]byte
	_, _ = rand.Read(seed[:])
	s := &OrderSequence{}
	s.counter.Store(100000 + binary.BigEndian.Uint64(seed[:])%900000)
	return s
}

// Next returns the low six decimal digits of the incremented counter,
// zero-padded.
func (s *OrderSequence) Next() string {
	n := s.counter.Add(1)
	return fmt.Sprintf("%06d", n%1000000)
}
