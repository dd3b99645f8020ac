package chat

import "sync/atomic"

// Sequencer hands out monotonically increasing message sequence numbers.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }
