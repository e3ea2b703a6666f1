package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/costofequity/internal/form"
)

func newTestStore(ttl time.Duration) (*MemoryStore, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(ttl, func() form.State { return form.State{Ticker: "AAPL"} })
	s.now = func() time.Time { return now }
	return s, &now
}

func TestGet_UnknownReturnsFresh(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	if st := s.Get("nope"); st.Ticker != "AAPL" {
		t.Fatalf("unexpected fresh state: %+v", st)
	}
	if s.Len() != 0 {
		t.Fatalf("Get must not create sessions")
	}
}

func TestUpdate_StoresEvenOnError(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	boom := errors.New("boom")

	_, err := s.Update("a", func(st form.State) (form.State, error) {
		st.Ticker = "MSFT"
		return st, nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	st, err := s.Update("a", func(st form.State) (form.State, error) {
		return form.Fail(st, boom), boom
	})
	if !errors.Is(err, boom) || !errors.Is(st.Err, boom) {
		t.Fatalf("err=%v state.Err=%v", err, st.Err)
	}
	if got := s.Get("a"); got.Ticker != "MSFT" || !errors.Is(got.Err, boom) {
		t.Fatalf("stored state: %+v", got)
	}
	if got := s.Get("b"); got.Ticker != "AAPL" {
		t.Fatalf("sessions leaked into each other: %+v", got)
	}
}

func TestSweep(t *testing.T) {
	s, now := newTestStore(time.Minute)
	_, _ = s.Update("idle", func(st form.State) (form.State, error) { return st, nil })
	_, _ = s.Update("busy", func(st form.State) (form.State, error) {
		st.Loading = true
		return st, nil
	})

	if n := s.Sweep(now.Add(30 * time.Second)); n != 0 {
		t.Fatalf("swept %d before ttl", n)
	}
	if n := s.Sweep(now.Add(2 * time.Minute)); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Fatalf("in-flight session was evicted")
	}
}

func TestUpdate_Concurrent(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update("a", func(st form.State) (form.State, error) {
				st.StartDate += "x"
				return st, nil
			})
		}()
	}
	wg.Wait()
	if got := len(s.Get("a").StartDate); got != 50 {
		t.Fatalf("lost updates: %d", got)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 10*time.Millisecond) }()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}
