package job

import (
	"context"
	"sync"
	"testing"
	"time"
)

// scriptedSource replays a fixed sequence of snapshots, repeating the
// last one once exhausted.
type scriptedSource struct {
	mu     sync.Mutex
	states []State
	i      int
}

func (s *scriptedSource) Status(jobID string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.states) == 0 {
		return State{}, false
	}
	st := s.states[s.i]
	if s.i < len(s.states)-1 {
		s.i++
	}
	return st, true
}

func fastConfig() StreamConfig {
	return StreamConfig{PollInterval: time.Millisecond, MaxPolls: 50}
}

func collect(t *testing.T, src StatusSource, cfg StreamConfig) []StreamEvent {
	t.Helper()
	var events []StreamEvent
	err := StreamJob(context.Background(), src, nil, cfg, "job_s", func(ev StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("stream error: %v", err)
	}
	return events
}

func snap(status Status, progress int, results ...Result) State {
	return State{JobID: "job_s", Status: status, Progress: progress, Results: results}
}

func TestStreamEmitsOnChangeOnly(t *testing.T) {
	src := &scriptedSource{states: []State{
		snap(StatusRunning, 10),
		snap(StatusRunning, 10),
		snap(StatusRunning, 15),
		snap(StatusCompleted, 100),
	}}
	events := collect(t, src, fastConfig())

	var progressEvents int
	for _, ev := range events {
		if ev.Type == EventProgress {
			progressEvents++
		}
	}
	// 10, 15, 100: the duplicate tick must not emit.
	if progressEvents != 3 {
		t.Fatalf("expected 3 progress events, got %d (%+v)", progressEvents, events)
	}
}

func TestStreamExactlyOneEndAndComplete(t *testing.T) {
	src := &scriptedSource{states: []State{
		snap(StatusRunning, 10),
		snap(StatusCompleted, 100),
	}}
	events := collect(t, src, fastConfig())

	var ends, completes int
	for _, ev := range events {
		switch ev.Type {
		case EventEnd:
			ends++
		case EventComplete:
			completes++
		}
	}
	if ends != 1 {
		t.Fatalf("expected exactly one end event, got %d", ends)
	}
	if completes != 1 {
		t.Fatalf("expected exactly one complete event, got %d", completes)
	}
	if events[len(events)-1].Type != EventEnd {
		t.Fatalf("end must be the final event, got %s", events[len(events)-1].Type)
	}
}

func TestStreamNodeUpdates(t *testing.T) {
	running := snap(StatusRunning, 27, Result{Kind: KindMarket, Status: ResultRunning})
	done := snap(StatusCompleted, 100, Result{Kind: KindMarket, Status: ResultCompleted, Progress: 100})
	src := &scriptedSource{states: []State{running, running, done}}
	events := collect(t, src, fastConfig())

	var nodes []StreamEvent
	for _, ev := range events {
		if ev.Type == EventNodeUpdate {
			nodes = append(nodes, ev)
		}
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 node updates (running, completed), got %d", len(nodes))
	}
	if nodes[0].NodeID != string(KindMarket) || nodes[0].Status != string(ResultRunning) {
		t.Fatalf("unexpected first node update: %+v", nodes[0])
	}
	if nodes[0].Thought == "" {
		t.Fatalf("node update missing thought")
	}
}

func TestStreamUnknownJob(t *testing.T) {
	src := &scriptedSource{}
	events := collect(t, src, fastConfig())
	if len(events) != 2 {
		t.Fatalf("expected error then end, got %+v", events)
	}
	if events[0].Type != EventError || events[1].Type != EventEnd {
		t.Fatalf("unexpected sequence: %s, %s", events[0].Type, events[1].Type)
	}
}

func TestStreamPollBudgetExhaustion(t *testing.T) {
	// Job never terminates; the stream must still close.
	src := &scriptedSource{states: []State{snap(StatusRunning, 10)}}
	events := collect(t, src, StreamConfig{PollInterval: time.Millisecond, MaxPolls: 5})

	if events[len(events)-1].Type != EventEnd {
		t.Fatalf("stream did not close on budget exhaustion")
	}
	for _, ev := range events {
		if ev.Type == EventComplete {
			t.Fatalf("complete must not be emitted for a non-terminal job")
		}
	}
}

func TestStreamTerminalOnFirstPoll(t *testing.T) {
	src := &scriptedSource{states: []State{snap(StatusFailed, 15)}}
	events := collect(t, src, fastConfig())

	// progress, complete, end
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %+v", events)
	}
	if events[1].Type != EventComplete || events[1].Status != string(StatusFailed) {
		t.Fatalf("unexpected complete event: %+v", events[1])
	}
}

func TestStreamContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &scriptedSource{states: []State{snap(StatusRunning, 10)}}

	var events []StreamEvent
	done := make(chan error, 1)
	go func() {
		done <- StreamJob(ctx, src, nil, StreamConfig{PollInterval: 50 * time.Millisecond, MaxPolls: 100}, "job_s", func(ev StreamEvent) error {
			events = append(events, ev)
			return nil
		})
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not stop on context cancellation")
	}
	if events[len(events)-1].Type != EventEnd {
		t.Fatalf("end event missing after context cancellation")
	}
}

func TestStreamPushEventsSurfaceBetweenPolls(t *testing.T) {
	bc := NewBroadcaster(nil)
	src := &scriptedSource{states: []State{snap(StatusRunning, 10)}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var nodes []StreamEvent
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = StreamJob(ctx, src, bc, StreamConfig{PollInterval: time.Hour, MaxPolls: 3}, "job_s", func(ev StreamEvent) error {
			if ev.Type == EventNodeUpdate {
				mu.Lock()
				nodes = append(nodes, ev)
				mu.Unlock()
			}
			return nil
		})
	}()

	// Let the stream subscribe, then push two transitions.
	time.Sleep(20 * time.Millisecond)
	bc.Publish("job_s", ProgressEvent{Kind: KindMarket, Status: ResultRunning})
	bc.Publish("job_s", ProgressEvent{Kind: KindMarket, Status: ResultCompleted, Progress: 100})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(nodes)
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("push events never surfaced, got %d node updates", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}

func TestStreamFailedPushCarriesError(t *testing.T) {
	bc := NewBroadcaster(nil)
	src := &scriptedSource{states: []State{snap(StatusRunning, 10)}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var nodes []StreamEvent
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = StreamJob(ctx, src, bc, StreamConfig{PollInterval: time.Hour, MaxPolls: 5}, "job_s", func(ev StreamEvent) error {
			if ev.Type == EventNodeUpdate {
				mu.Lock()
				nodes = append(nodes, ev)
				mu.Unlock()
			}
			return nil
		})
	}()

	time.Sleep(20 * time.Millisecond)
	bc.Publish("job_s", ProgressEvent{Kind: KindPatent, Status: ResultFailed, Error: "patent database down"})
	// Same status and progress without the message must not shadow an
	// error-carrying version, and vice versa.
	bc.Publish("job_s", ProgressEvent{Kind: KindClinical, Status: ResultFailed})
	bc.Publish("job_s", ProgressEvent{Kind: KindClinical, Status: ResultFailed, Error: "registry timeout"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(nodes)
		mu.Unlock()
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 3 node updates, got %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if nodes[0].NodeID != string(KindPatent) || nodes[0].Error != "patent database down" {
		t.Fatalf("failed node update lost its error: %+v", nodes[0])
	}
	if nodes[2].NodeID != string(KindClinical) || nodes[2].Error != "registry timeout" {
		t.Fatalf("error-carrying update was deduplicated away: %+v", nodes[2])
	}
}
