package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"benchlens/internal/core/ports"
	"benchlens/internal/data/history"
	"benchlens/internal/engine/metrics"
)

type stubService struct {
	parsed   *metrics.ParsedMethod
	parseErr error
}

func (s *stubService) RunBatch(ctx context.Context, req ports.BatchRequest) (ports.BatchResult, error) {
	return ports.BatchResult{}, nil
}

func (s *stubService) ParseOne(ctx context.Context, path, methodName string) (*metrics.ParsedMethod, error) {
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	return s.parsed, nil
}

func (s *stubService) Subscribe(ctx context.Context, handler func(ports.ItemUpdate)) error {
	return nil
}

func (s *stubService) WatchService() ports.WatchService {
	return nil
}

type stubHistory struct {
	runs []history.Run
}

func (s *stubHistory) RecordRun(run history.Run) error {
	s.runs = append([]history.Run{run}, s.runs...)
	return nil
}

func (s *stubHistory) RecentRuns(limit int) ([]history.Run, error) {
	return s.runs, nil
}

func TestModel_ItemFlowAndPanelToggle(t *testing.T) {
	m := initialModel(nil, nil, 5)

	updated, _ := m.Update(itemMsg{update: ports.ItemUpdate{
		Index:       0,
		Total:       2,
		Benchmark:   "io.reactivex.Foo_Benchmark.benchmark_dispose3",
		MethodName:  "dispose3",
		Outcome:     ports.OutcomeParsed,
		SuccessRate: 100,
	}})
	state := updated.(model)
	updated, _ = state.Update(itemMsg{update: ports.ItemUpdate{
		Index:       1,
		Total:       2,
		Benchmark:   "io.reactivex.Foo_Benchmark.benchmark_missing",
		MethodName:  "missing",
		Outcome:     ports.OutcomeNotFound,
		Reason:      "method not found",
		SuccessRate: 50,
	}})
	state = updated.(model)

	if len(state.resultList.Items()) != 2 {
		t.Fatalf("expected 2 result items, got %d", len(state.resultList.Items()))
	}
	if state.parsedCount != 1 || state.failedCount != 1 {
		t.Fatalf("unexpected counts: parsed=%d failed=%d", state.parsedCount, state.failedCount)
	}
	if state.rate != 50 {
		t.Fatalf("unexpected success rate: %v", state.rate)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelHistory {
		t.Fatalf("expected history panel after tab, got %v", state.mode)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelResults {
		t.Fatalf("expected results panel after second tab, got %v", state.mode)
	}
}

func TestModel_NewCycleResetsItems(t *testing.T) {
	m := initialModel(nil, nil, 5)

	updated, _ := m.Update(itemMsg{update: ports.ItemUpdate{MethodName: "a", Outcome: ports.OutcomeParsed}})
	state := updated.(model)
	updated, _ = state.Update(runMsg{result: ports.BatchResult{Attempted: 1, Succeeded: 1, SuccessRate: 100}, completedAt: time.Now()})
	state = updated.(model)
	updated, _ = state.Update(itemMsg{update: ports.ItemUpdate{MethodName: "b", Outcome: ports.OutcomeParseError, Reason: "boom"}})
	state = updated.(model)

	if len(state.resultList.Items()) != 1 {
		t.Fatalf("expected reset to 1 item, got %d", len(state.resultList.Items()))
	}
	if state.parsedCount != 0 || state.failedCount != 1 {
		t.Fatalf("unexpected counts after reset: parsed=%d failed=%d", state.parsedCount, state.failedCount)
	}
}

func TestModel_DetailDrillDown(t *testing.T) {
	svc := &stubService{parsed: &metrics.ParsedMethod{
		MethodName:      "dispose3",
		PackageAccesses: map[string]int{"java.lang": 4},
		NumConditionals: 2,
		NumLoops:        1,
		LinesOfCode:     30,
	}}
	m := initialModel(svc, nil, 5)

	updated, _ := m.Update(itemMsg{update: ports.ItemUpdate{
		Benchmark:  "io.reactivex.Foo_Benchmark.benchmark_dispose3",
		MethodName: "dispose3",
		SourcePath: "src/test/java/io/reactivex/Foo.java",
		Outcome:    ports.OutcomeParsed,
	}})
	state := updated.(model)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state = updated.(model)
	if !state.hasDetail {
		t.Fatalf("expected detail to open, err=%q", state.detailErr)
	}
	if state.detail.NumConditionals != 2 {
		t.Fatalf("unexpected detail payload: %+v", state.detail)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	state = updated.(model)
	if state.hasDetail {
		t.Fatal("expected detail to close on esc")
	}
}

func TestModel_HistoryRefreshOnRun(t *testing.T) {
	store := &stubHistory{runs: []history.Run{
		{ID: "run-1", StartedAt: time.Now().Add(-time.Minute), Attempted: 3, Succeeded: 3, SuccessRate: 100},
		{ID: "run-2", StartedAt: time.Now().Add(-2 * time.Minute), Attempted: 3, Succeeded: 1, SuccessRate: 33.33, Interrupted: true},
	}}
	m := initialModel(nil, store, 5)

	if len(m.historyList.Items()) != 2 {
		t.Fatalf("expected seeded history items, got %d", len(m.historyList.Items()))
	}

	store.runs = append([]history.Run{{ID: "run-3", StartedAt: time.Now(), Attempted: 2, Succeeded: 2, SuccessRate: 100}}, store.runs...)
	updated, _ := m.Update(runMsg{trigger: "watch", result: ports.BatchResult{SuccessRate: 100}, completedAt: time.Now()})
	state := updated.(model)

	if len(state.historyList.Items()) != 3 {
		t.Fatalf("expected refreshed history items, got %d", len(state.historyList.Items()))
	}
	if state.runs[0].ID != "run-3" {
		t.Fatalf("expected newest run first, got %q", state.runs[0].ID)
	}
	if state.lastTrigger != "watch" {
		t.Fatalf("unexpected trigger: %q", state.lastTrigger)
	}
}
