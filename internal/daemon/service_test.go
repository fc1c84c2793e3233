package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/paycycle/internal/log"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/notify"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg notify.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.Type)
	}
	return out
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T, c *clock) (*Service, *store.Store, *recordingPublisher) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "paycycle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	require.NoError(t, st.SetBaseSalary(ctx, decimal.NewFromInt(1000)))
	require.NoError(t, st.SetPayday(ctx, 5))

	pub := &recordingPublisher{}
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 50, Now: c.now}, st, pub, log.Nop())
	return s, st, pub
}

func addExpense(t *testing.T, st *store.Store, amount, date string) {
	t.Helper()
	_, err := st.AddExpense(context.Background(), model.Expense{
		Description: "test",
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Category:    model.CategoryFood,
	})
	require.NoError(t, err)
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Expenses:       3,
		Spent:          decimal.RequireFromString("120.50"),
		NetSalary:      decimal.NewFromInt(1000),
		ProjectedTotal: decimal.NewFromInt(400),
	}
	curr := Snapshot{
		Expenses:       5,
		Spent:          decimal.RequireFromString("180.75"),
		NetSalary:      decimal.NewFromInt(1000),
		ProjectedTotal: decimal.NewFromInt(520),
	}

	delta := diffSnapshots(prev, curr)
	if delta.Expenses != 2 {
		t.Fatalf("Expenses delta = %d, want 2", delta.Expenses)
	}
	if !delta.Spent.Equal(decimal.RequireFromString("60.25")) {
		t.Fatalf("Spent delta = %s, want 60.25", delta.Spent)
	}
	if !delta.NetSalary.IsZero() {
		t.Fatalf("NetSalary delta = %s, want 0", delta.NetSalary)
	}
	if !delta.ProjectedTotal.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("ProjectedTotal delta = %s, want 120", delta.ProjectedTotal)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("self diff should be zero")
	}
}

func TestClassify(t *testing.T) {
	base := Snapshot{CycleStart: "2024-06-05"}
	moved := Snapshot{CycleStart: "2024-06-05", Expenses: 1}
	rolled := Snapshot{CycleStart: "2024-07-05"}
	over := Snapshot{CycleStart: "2024-06-05", Expenses: 1, WillOverspend: true}
	rolledOver := Snapshot{CycleStart: "2024-07-05", WillOverspend: true}

	tests := []struct {
		name       string
		prev, curr Snapshot
		want       []string
	}{
		{"unchanged", base, base, nil},
		{"updated", base, moved, []string{EventCycleUpdated}},
		{"rolled", moved, rolled, []string{EventCycleRolled}},
		{"overspend flips", base, over, []string{EventCycleUpdated, EventOverspendWarning}},
		{"still overspending", over, over, nil},
		{"rolled into overspend", over, rolledOver, []string{EventCycleRolled, EventOverspendWarning}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.prev, tt.curr, diffSnapshots(tt.prev, tt.curr))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	pub := &recordingPublisher{}
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, nil, pub, nil)

	ctx := context.Background()
	s.publishEvent(ctx, Event{Type: EventCycleUpdated})
	s.publishEvent(ctx, Event{Type: EventCycleUpdated})
	s.publishEvent(ctx, Event{Type: EventCycleRolled})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
	if len(pub.types()) != 3 {
		t.Fatalf("published %d messages, want 3", len(pub.types()))
	}
}

func TestPollOnceEmitsLifecycleEvents(t *testing.T) {
	c := &clock{t: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	s, st, pub := newTestService(t, c)
	ctx := context.Background()

	addExpense(t, st, "100", "2024-06-06")
	s.pollOnce(ctx)
	require.Equal(t, []string{EventDaemonStarted}, pub.types())

	status := s.snapshotStatus()
	assert.Equal(t, "2024-06-05", status.Summary.CycleStart)
	assert.Equal(t, "2024-07-04", status.Summary.CycleEnd)
	assert.True(t, status.Summary.Spent.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(1), status.PollCount)

	// No change, no event.
	s.pollOnce(ctx)
	assert.Len(t, pub.types(), 1)

	addExpense(t, st, "1000", "2024-06-09")
	s.pollOnce(ctx)
	assert.Equal(t, []string{EventDaemonStarted, EventCycleUpdated, EventOverspendWarning}, pub.types())

	c.t = time.Date(2024, 7, 6, 9, 0, 0, 0, time.UTC)
	s.pollOnce(ctx)
	types := pub.types()
	assert.Equal(t, EventCycleRolled, types[len(types)-1])
	assert.Equal(t, "2024-07-05", s.snapshotStatus().Summary.CycleStart)
}

func TestAnnualEndpointCaches(t *testing.T) {
	c := &clock{t: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	s, st, _ := newTestService(t, c)
	addExpense(t, st, "250", "2024-03-15")
	s.pollOnce(context.Background())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/annual?year=2024", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view AnnualView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 2024, view.Year)
	assert.Len(t, view.Months, 12)
	assert.True(t, view.Months[2].Expense.Equal(decimal.NewFromInt(250)))
	assert.True(t, view.Expense.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 1, s.annual.Len())

	s.pollOnce(context.Background())
	assert.Equal(t, 0, s.annual.Len(), "poll purges cached reports")

	// A request that read data before a poll and stored its report after
	// the purge leaves an entry under the old generation.
	addExpense(t, st, "50", "2024-03-20")
	s.pollOnce(context.Background())
	s.annual.Set(annualKey(s.pollCount-1, 2024), view)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/annual?year=2024", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var fresh AnnualView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fresh))
	assert.True(t, fresh.Expense.Equal(decimal.NewFromInt(300)), "stale report served: %s", fresh.Expense)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/annual?year=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusAndHealthEndpoints(t *testing.T) {
	c := &clock{t: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	s, _, _ := newTestService(t, c)
	s.pollOnce(context.Background())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "2024-06-05", status.Summary.CycleStart)
	assert.Equal(t, 1, status.EventCount)
}
