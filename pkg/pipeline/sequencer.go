package pipeline

import "sync/atomic"

// Ticket identifies one layout request handed out by a [Sequencer].
type Ticket uint64

// Sequencer orders asynchronous layout requests so that a newer request
// supersedes an older one still in flight. The engine does no cancellation
// bookkeeping; callers take a ticket before dispatching work and drop any
// result whose ticket is no longer accepted.
//
// The zero value is ready to use and safe for concurrent use.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a ticket newer than every ticket issued before.
func (s *Sequencer) Next() Ticket {
	return Ticket(s.latest.Add(1))
}

// Accept reports whether t is still the newest ticket.
func (s *Sequencer) Accept(t Ticket) bool {
	return uint64(t) == s.latest.Load()
}

// Latest returns the newest issued ticket, zero if none.
func (s *Sequencer) Latest() Ticket {
	return Ticket(s.latest.Load())
}
