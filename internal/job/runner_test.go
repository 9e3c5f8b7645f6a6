package job

import (
	"context"
	"errors"
	"testing"
)

func planned(kinds ...Kind) State {
	st := NewState("job_t", "glp-1 market", DefaultOptions())
	for _, k := range kinds {
		st.Plan = append(st.Plan, Task{ID: "task_" + string(k), Kind: k})
	}
	return st
}

func TestRunnerSuccess(t *testing.T) {
	provider := ProviderFunc(func(ctx context.Context, req ProviderRequest) (map[string]interface{}, error) {
		return map[string]interface{}{"answer": 42}, nil
	})
	r := NewRunner(KindMarket, 27, provider, nil)

	u, err := r.Run(context.Background(), planned(KindMarket))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(u.Results))
	}
	res := u.Results[0]
	if res.Status != ResultCompleted || res.Progress != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.StartedAt == nil || res.CompletedAt == nil {
		t.Fatalf("timestamps not recorded")
	}
	if u.Progress == nil || *u.Progress != 27 {
		t.Fatalf("checkpoint not advanced")
	}
}

func TestRunnerFailureIsIsolated(t *testing.T) {
	provider := ProviderFunc(func(ctx context.Context, req ProviderRequest) (map[string]interface{}, error) {
		return nil, errors.New("upstream unavailable")
	})
	r := NewRunner(KindPatent, 39, provider, nil)

	u, err := r.Run(context.Background(), planned(KindPatent))
	if err != nil {
		t.Fatalf("provider error must not escape the runner: %v", err)
	}
	res := u.Results[0]
	if res.Status != ResultFailed {
		t.Fatalf("expected failed result, got %v", res.Status)
	}
	if res.Error != "upstream unavailable" {
		t.Fatalf("error message not recorded: %q", res.Error)
	}
}

func TestRunnerRecoversPanic(t *testing.T) {
	provider := ProviderFunc(func(ctx context.Context, req ProviderRequest) (map[string]interface{}, error) {
		panic("boom")
	})
	r := NewRunner(KindClinical, 51, provider, nil)

	u, err := r.Run(context.Background(), planned(KindClinical))
	if err != nil {
		t.Fatalf("panic must not escape the runner: %v", err)
	}
	if u.Results[0].Status != ResultFailed {
		t.Fatalf("panicking provider should yield a failed result")
	}
}

func TestRunnerSkipsUnplannedKind(t *testing.T) {
	called := false
	provider := ProviderFunc(func(ctx context.Context, req ProviderRequest) (map[string]interface{}, error) {
		called = true
		return nil, nil
	})
	r := NewRunner(KindLiterature, 75, provider, nil)

	u, err := r.Run(context.Background(), planned(KindMarket))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("provider must not run for an unplanned kind")
	}
	if len(u.Results) != 0 {
		t.Fatalf("skipped kind must not add a result")
	}
	if u.Progress == nil || *u.Progress != 75 {
		t.Fatalf("checkpoint must still advance for skipped kinds")
	}
}

func TestRunnerNilProvider(t *testing.T) {
	r := NewRunner(KindWebIntel, 63, nil, nil)
	u, err := r.Run(context.Background(), planned(KindWebIntel))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Results[0].Status != ResultFailed {
		t.Fatalf("missing provider should fail the task, got %v", u.Results[0].Status)
	}
}

func TestRunnerPublishesTransitions(t *testing.T) {
	bc := NewBroadcaster(nil)
	var events []ProgressEvent
	bc.Subscribe("job_t", func(ev ProgressEvent) { events = append(events, ev) })

	provider := ProviderFunc(func(ctx context.Context, req ProviderRequest) (map[string]interface{}, error) {
		return map[string]interface{}{}, nil
	})
	r := NewRunner(KindMarket, 27, provider, bc)
	if _, err := r.Run(context.Background(), planned(KindMarket)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected running and completed events, got %d", len(events))
	}
	if events[0].Status != ResultRunning || events[1].Status != ResultCompleted {
		t.Fatalf("unexpected event sequence: %+v", events)
	}
}

func TestRunnerPublishesFailureError(t *testing.T) {
	bc := NewBroadcaster(nil)
	var events []ProgressEvent
	bc.Subscribe("job_t", func(ev ProgressEvent) { events = append(events, ev) })

	provider := ProviderFunc(func(ctx context.Context, req ProviderRequest) (map[string]interface{}, error) {
		return nil, errors.New("patent database down")
	})
	r := NewRunner(KindPatent, 39, provider, bc)
	if _, err := r.Run(context.Background(), planned(KindPatent)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 || events[1].Status != ResultFailed {
		t.Fatalf("expected running then failed, got %+v", events)
	}
	if events[1].Error != "patent database down" {
		t.Fatalf("failed event missing error message: %+v", events[1])
	}
}
