package progress

import (
	"sync"
	"testing"
)

var exportStages = []StageWeight{
	{Name: "initializing", Weight: 10},
	{Name: "collecting", Weight: 40},
	{Name: "formatting", Weight: 30},
	{Name: "saving", Weight: 20},
}

func TestStageTrackerOverall(t *testing.T) {
	r := NewRegistry()

	var got []int
	r.Subscribe("exp-1", func(u Update) { got = append(got, u.Overall) })
	tr := r.NewStageTracker("exp-1", exportStages)

	cases := []struct {
		stage string
		pct   int
		want  int
	}{
		{"initializing", 0, 0},
		{"initializing", 100, 10},
		{"collecting", 50, 30},  // 10 + 40*0.5
		{"collecting", 100, 50}, // 10 + 40
		{"formatting", 100, 80},
		{"saving", 50, 90},
		{"saving", 100, 100},
	}
	for i, tc := range cases {
		tr.UpdateStage(tc.stage, tc.pct, "")
		if got[i] != tc.want {
			t.Errorf("stage %s@%d%%: overall = %d, want %d", tc.stage, tc.pct, got[i], tc.want)
		}
	}

	tr.Complete("done")
	if last := got[len(got)-1]; last != 100 {
		t.Errorf("Complete() overall = %d, want 100", last)
	}
}

func TestStageTrackerClampsPercent(t *testing.T) {
	r := NewRegistry()
	var last Update
	r.Subscribe("exp-1", func(u Update) { last = u })
	tr := r.NewStageTracker("exp-1", exportStages)

	tr.UpdateStage("collecting", 150, "")
	if last.StagePct != 100 || last.Overall != 50 {
		t.Errorf("clamped update = (%d, %d), want (100, 50)", last.StagePct, last.Overall)
	}
	tr.UpdateStage("collecting", -10, "")
	if last.StagePct != 0 || last.Overall != 10 {
		t.Errorf("clamped update = (%d, %d), want (0, 10)", last.StagePct, last.Overall)
	}
}

func TestRegistryIsolatesExportIDs(t *testing.T) {
	r := NewRegistry()

	var a, b []Update
	r.Subscribe("a", func(u Update) { a = append(a, u) })
	r.Subscribe("b", func(u Update) { b = append(b, u) })

	r.NewStageTracker("a", exportStages).UpdateStage("saving", 100, "")
	r.NewStageTracker("b", exportStages).UpdateStage("initializing", 0, "")

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected one update each, got %d and %d", len(a), len(b))
	}
	if a[0].Overall == b[0].Overall {
		t.Error("updates crossed export IDs")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Subscribe("a", func(Update) { calls++ })
	tr := r.NewStageTracker("a", exportStages)

	tr.UpdateStage("initializing", 50, "")
	r.Unsubscribe("a")
	tr.UpdateStage("saving", 100, "")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if r.Subscribed("a") {
		t.Error("Subscribed should report false after Unsubscribe")
	}
}

func TestConcurrentDistinctIDs(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%26))
			r.Subscribe(id, func(Update) {})
			r.NewStageTracker(id, exportStages).UpdateStage("collecting", 50, "")
			r.Unsubscribe(id)
		}(i)
	}
	wg.Wait()
}
