package system

import (
	"context"
	"fmt"
	"testing"
)

type recordingService struct {
	NoopService
	events *[]string
	fail   bool
}

func (s recordingService) Start(context.Context) error {
	if s.fail {
		return fmt.Errorf("boom")
	}
	*s.events = append(*s.events, "start:"+s.ServiceName)
	return nil
}

func (s recordingService) Stop(context.Context) error {
	*s.events = append(*s.events, "stop:"+s.ServiceName)
	return nil
}

func TestManagerStartStopOrder(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"a", "b"} {
		if err := m.Register(recordingService{NoopService: NoopService{ServiceName: name}, events: &events}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("unexpected events: %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got %s want %s", i, events[i], want[i])
		}
	}
}

func TestManagerRejectsDuplicateNames(t *testing.T) {
	m := NewManager()
	if err := m.Register(NoopService{ServiceName: "pos"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := m.Register(NoopService{ServiceName: "pos"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestManagerStartFailureUnwindsStartedServices(t *testing.T) {
	var events []string
	m := NewManager()
	_ = m.Register(recordingService{NoopService: NoopService{ServiceName: "ok"}, events: &events})
	_ = m.Register(recordingService{NoopService: NoopService{ServiceName: "bad"}, events: &events, fail: true})

	if err := m.Start(context.Background()); err == nil {
		t.Fatalf("expected start error")
	}
	if len(events) != 2 || events[1] != "stop:ok" {
		t.Fatalf("expected started service to be stopped, events: %v", events)
	}
}
