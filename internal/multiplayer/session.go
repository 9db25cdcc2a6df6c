package multiplayer

import (
	"sync"
	"sync/atomic"
)

// defaultEventBuffer is used when a session is created with no buffer size.
const defaultEventBuffer = 64

// SessionHandle is how the coordinator and matches reach a connected player,
// whatever the transport (SSH program, websocket).
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send queues an event for the player. It must never block.
	Send(evt SessionEvent)

	// Done is closed when the player is gone.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a bounded queue.
// When the queue is full the oldest event is discarded, so a slow reader
// always ends up with the latest board.
type ChannelSession struct {
	id        SessionID
	events    chan SessionEvent
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64
}

// NewChannelSession creates a session whose queue holds buffer events.
func NewChannelSession(id SessionID, buffer int) *ChannelSession {
	if buffer < 1 {
		buffer = defaultEventBuffer
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues evt, discarding the oldest queued event if needed.
// Events sent after Close are ignored.
func (s *ChannelSession) Send(evt SessionEvent) {
	if s.Closed() {
		return
	}
	for {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
			// A reader drained the queue in between; retry the send.
		}
	}
}

// Events returns the queue read by the transport.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns the channel closed by Close.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether Close has been called.
func (s *ChannelSession) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (s *ChannelSession) Dropped() uint64 {
	return s.dropped.Load()
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry indexes connected sessions by ID. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds session, replacing any session with the same ID.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes the session with the given ID.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get returns the session with the given ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes and removes every session that supports closing.
// Used on shutdown so transports stop waiting for events.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
		delete(r.sessions, id)
	}
}
