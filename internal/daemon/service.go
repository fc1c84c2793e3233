// Package daemon provides the long-running cycle monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theirongolddev/paycycle/internal/cache"
	"github.com/theirongolddev/paycycle/internal/log"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/notify"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	EventDaemonStarted    = "daemon_started"
	EventCycleUpdated     = "cycle_updated"
	EventCycleRolled      = "cycle_rolled"
	EventOverspendWarning = "overspend_warning"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Now          func() time.Time
}

// Snapshot is a compact cycle state for status/event payloads.
type Snapshot struct {
	At             time.Time       `json:"at"`
	CycleStart     string          `json:"cycle_start"`
	CycleEnd       string          `json:"cycle_end"`
	DaysLeft       int             `json:"days_left"`
	Expenses       int             `json:"expenses"`
	Spent          decimal.Decimal `json:"spent"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	DailyAverage   decimal.Decimal `json:"daily_average"`
	ProjectedTotal decimal.Decimal `json:"projected_total"`
	FinalBalance   decimal.Decimal `json:"final_balance"`
	PercentSpent   float64         `json:"percent_spent"`
	WillOverspend  bool            `json:"will_overspend"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Expenses       int             `json:"expenses"`
	Spent          decimal.Decimal `json:"spent"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	ProjectedTotal decimal.Decimal `json:"projected_total"`
}

func (d Delta) isZero() bool {
	return d.Expenses == 0 &&
		d.Spent.IsZero() &&
		d.NetSalary.IsZero() &&
		d.ProjectedTotal.IsZero()
}

// Event is emitted whenever the cycle snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	store  *store.Store
	pub    notify.Publisher
	logger *log.Logger
	annual *cache.LRU[AnnualView]

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	data        pipeline.Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from st and publishing through pub.
// A nil pub or logger disables that output.
func New(cfg Config, st *store.Store, pub notify.Publisher, logger *log.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if pub == nil {
		pub = notify.Nop{}
	}
	if logger == nil {
		logger = log.Nop()
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		pub:       pub,
		logger:    logger.WithComponent(log.ComponentDaemon),
		annual:    cache.NewLRU[AnnualView](16, cfg.Interval),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API mux.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.HandleFunc("/v1/annual", s.handleAnnual)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("daemon listening",
		log.FieldOperation, log.OpStartup,
		"addr", s.cfg.Addr,
		"interval", s.cfg.Interval.String())

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("daemon shutting down", log.FieldOperation, log.OpShutdown)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	start := time.Now()
	data, err := pipeline.LoadSnapshot(ctx, s.store)
	now := s.cfg.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.logger.Error("poll failed", log.FieldOperation, log.OpPoll, log.FieldError, err)
		return
	}

	report := pipeline.BuildCycleReport(data, now)
	snap := snapshotFromReport(report, now)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.data = data
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	s.mu.Unlock()

	// Annual reports are derived from data that just reloaded.
	s.annual.Purge()

	var events []Event
	if !prevExists {
		events = append(events, Event{Type: EventDaemonStarted, Timestamp: now, Snapshot: snap})
	} else {
		delta := diffSnapshots(prev, snap)
		for _, typ := range classify(prev, snap, delta) {
			events = append(events, Event{Type: typ, Timestamp: now, Snapshot: snap, Delta: delta})
		}
	}
	for _, ev := range events {
		s.publishEvent(ctx, ev)
	}

	s.logger.Debug("poll complete",
		log.FieldOperation, log.OpPoll,
		log.FieldCycleStart, snap.CycleStart,
		log.FieldCount, len(events),
		log.FieldDuration, time.Since(start).Milliseconds())
}

// classify returns the event types a change from prev to curr produces.
// A rollover replaces the plain update.
func classify(prev, curr Snapshot, delta Delta) []string {
	var types []string
	rolled := prev.CycleStart != curr.CycleStart
	if rolled {
		types = append(types, EventCycleRolled)
	} else if !delta.isZero() {
		types = append(types, EventCycleUpdated)
	}
	if curr.WillOverspend && (rolled || !prev.WillOverspend) {
		types = append(types, EventOverspendWarning)
	}
	return types
}

func snapshotFromReport(r model.CycleReport, at time.Time) Snapshot {
	return Snapshot{
		At:             at,
		CycleStart:     r.Cycle.Start.Format(model.DateLayout),
		CycleEnd:       r.Cycle.End.Format(model.DateLayout),
		DaysLeft:       r.Cycle.RemainingDays,
		Expenses:       r.Spend.Count,
		Spent:          r.Spend.Total,
		NetSalary:      r.NetSalary,
		DailyAverage:   r.Projection.DailyAverage,
		ProjectedTotal: r.Projection.ProjectedTotal,
		FinalBalance:   r.Projection.FinalBalance,
		PercentSpent:   r.PercentSpent,
		WillOverspend:  r.Projection.WillOverspend,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Expenses:       curr.Expenses - prev.Expenses,
		Spent:          curr.Spent.Sub(prev.Spent),
		NetSalary:      curr.NetSalary.Sub(prev.NetSalary),
		ProjectedTotal: curr.ProjectedTotal.Sub(prev.ProjectedTotal),
	}
}

// publishEvent assigns the next ID, records ev in the ring buffer, fans it out
// to stream subscribers and hands it to the broker publisher.
func (s *Service) publishEvent(ctx context.Context, ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()

	msg := notify.Message{
		ID:        uuid.NewString(),
		Type:      ev.Type,
		Timestamp: ev.Timestamp,
		Payload:   ev,
	}
	if err := s.pub.Publish(ctx, msg); err != nil {
		s.logger.Warn("publish failed",
			log.FieldOperation, log.OpPublish,
			log.FieldEventType, ev.Type,
			log.FieldEventID, ev.ID,
			log.FieldError, err)
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.store.Path(),
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleAnnual(w http.ResponseWriter, r *http.Request) {
	now := s.cfg.Now()
	year := now.Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = y
	}

	s.mu.RLock()
	data, gen := s.data, s.pollCount
	s.mu.RUnlock()

	// Keys carry the poll generation, so a report built from data that a
	// concurrent poll replaced is never served afterwards.
	key := annualKey(gen, year)
	view, ok := s.annual.Get(key)
	if !ok {
		view = annualView(pipeline.BuildAnnualReportAt(year, data, now))
		s.annual.Set(key, view)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

func annualKey(gen int64, year int) string {
	return strconv.FormatInt(gen, 10) + "/" + strconv.Itoa(year)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
