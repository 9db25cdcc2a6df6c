package multiplayer

import "testing"

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", 2)
	s.Send(NoticeEvent{Message: "1"})
	s.Send(NoticeEvent{Message: "2"})
	s.Send(NoticeEvent{Message: "3"})

	got := []string{
		(<-s.Events()).(NoticeEvent).Message,
		(<-s.Events()).(NoticeEvent).Message,
	}
	if got[0] != "2" || got[1] != "3" {
		t.Errorf("events = %v, expected [2 3]", got)
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped() = %d, expected 1", s.Dropped())
	}
}

func TestChannelSessionClosed(t *testing.T) {
	s := NewChannelSession("s", 4)
	s.Close()
	s.Close() // idempotent

	s.Send(NoticeEvent{Message: "late"})
	select {
	case evt := <-s.Events():
		t.Errorf("received %v after Close", evt)
	default:
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed")
	}
	if !s.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	s := NewChannelSession(NewSessionID(), 1)
	r.Register(s)

	if got, ok := r.Get(s.ID()); !ok || got.ID() != s.ID() {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", r.Count())
	}

	r.Unregister(s.ID())
	if _, ok := r.Get(s.ID()); ok {
		t.Error("session still present after Unregister")
	}
}

func TestSessionRegistryCloseAll(t *testing.T) {
	r := NewSessionRegistry()
	a, b := NewChannelSession("a", 1), NewChannelSession("b", 1)
	r.Register(a)
	r.Register(b)

	r.CloseAll()

	if r.Count() != 0 {
		t.Errorf("Count() = %d after CloseAll, expected 0", r.Count())
	}
	if !a.Closed() || !b.Closed() {
		t.Error("CloseAll should close every session")
	}
}

func TestMatchModeString(t *testing.T) {
	tests := []struct {
		mode MatchMode
		want string
	}{
		{MatchModeHotSeat, "hotseat"},
		{MatchModeOnline, "online"},
		{MatchMode(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("MatchMode(%d).String() = %q, expected %q", tt.mode, got, tt.want)
		}
	}
}
