// Package generation keeps tool page sessions: a form state, the
// generating flag and the last result. Generation is simulated with a
// cancellable timer that renders a snapshot of the form when it fires.
package generation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/idgen"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

const (
	DefaultMinDelay = 2 * time.Second
	DefaultMaxDelay = 4 * time.Second
	DefaultTTL      = 30 * time.Minute
)

// Config holds Manager dependencies. Zero values get defaults.
type Config struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	TTL      time.Duration

	Decor  decor.Provider
	IDs    idgen.Generator
	Logger *slog.Logger
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID          uuid.UUID      `json:"id"`
	Tool        string         `json:"tool"`
	Format      tool.Format    `json:"format"`
	Language    string         `json:"language,omitempty"`
	Values      map[string]any `json:"values"`
	Generating  bool           `json:"generating"`
	Result      string         `json:"result"`
	Error       string         `json:"error,omitempty"`
	GeneratedAt *time.Time     `json:"generatedAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type session struct {
	id    uuid.UUID
	tool  *tool.Tool
	state *form.State

	generating  bool
	result      string
	err         string
	generatedAt time.Time
	updatedAt   time.Time

	// run identifies the pending generation so a timer that fires after
	// Cancel or a newer Generate is ignored.
	run   uint64
	timer *time.Timer
	done  chan struct{}
}

// Manager owns every open session.
type Manager struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	closed   bool
}

// NewManager creates a Manager.
func NewManager(cfg Config) *Manager {
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = DefaultMinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Decor == nil {
		cfg.Decor = decor.Default
	}
	if cfg.IDs == nil {
		cfg.IDs = idgen.NewV7()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Open starts a session for t with its defaults overlaid by values.
func (m *Manager) Open(t *tool.Tool, values map[string]any) (Snapshot, error) {
	const op = "generation.Open"

	st, err := t.NewState(values)
	if err != nil {
		return Snapshot{}, err
	}
	id, err := m.cfg.IDs.Generate()
	if err != nil {
		return Snapshot{}, errx.E(op, errx.Internal, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Snapshot{}, errx.Ef(op, errx.Unavailable, "session manager is shut down")
	}

	s := &session{id: id, tool: t, state: st, updatedAt: time.Now()}
	m.sessions[id] = s

	m.logger.Debug("session opened", "session_id", id, "tool", t.ID())
	return s.snapshot(), nil
}

// Get returns the current state of a session.
func (m *Manager) Get(id uuid.UUID) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup("generation.Get", id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), nil
}

// Tool returns the tool a session belongs to.
func (m *Manager) Tool(id uuid.UUID) (*tool.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup("generation.Tool", id)
	if err != nil {
		return nil, err
	}
	return s.tool, nil
}

// Update applies values to the form. Edits made while generating do not
// affect the pending result.
func (m *Manager) Update(id uuid.UUID, values map[string]any) (Snapshot, error) {
	return m.mutate("generation.Update", id, func(st *form.State) error {
		return st.Apply(values)
	})
}

// Toggle flips option in a multi-select field.
func (m *Manager) Toggle(id uuid.UUID, field, option string) (Snapshot, error) {
	return m.mutate("generation.Toggle", id, func(st *form.State) error {
		return st.Toggle(field, option)
	})
}

// AddItem appends value to a multi-select, as the keyword and skill inputs do.
func (m *Manager) AddItem(id uuid.UUID, field, value string) (Snapshot, error) {
	return m.mutate("generation.AddItem", id, func(st *form.State) error {
		return st.Add(field, value)
	})
}

// RemoveItem drops value from a multi-select.
func (m *Manager) RemoveItem(id uuid.UUID, field, value string) (Snapshot, error) {
	return m.mutate("generation.RemoveItem", id, func(st *form.State) error {
		return st.Remove(field, value)
	})
}

func (m *Manager) mutate(op string, id uuid.UUID, fn func(*form.State) error) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(op, id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := fn(s.state); err != nil {
		return Snapshot{}, err
	}
	s.updatedAt = time.Now()
	return s.snapshot(), nil
}

// Generate starts a simulated generation. The result renders the form as it
// is now, after a random delay between MinDelay and MaxDelay. The previous
// result stays visible until the new one lands.
func (m *Manager) Generate(id uuid.UUID) (Snapshot, error) {
	const op = "generation.Generate"

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(op, id)
	if err != nil {
		return Snapshot{}, err
	}
	if s.generating {
		return Snapshot{}, errx.Ef(op, errx.Conflict, "generation already in progress")
	}

	state := s.state.Clone()
	delay := m.delay()

	s.run++
	run := s.run
	s.generating = true
	s.err = ""
	s.done = make(chan struct{})
	s.updatedAt = time.Now()
	s.timer = time.AfterFunc(delay, func() { m.complete(s, run, state) })

	m.logger.Info("generation started", "session_id", id, "tool", s.tool.ID(), "delay", delay)
	return s.snapshot(), nil
}

func (m *Manager) delay() time.Duration {
	lo, hi := m.cfg.MinDelay.Milliseconds(), m.cfg.MaxDelay.Milliseconds()
	if hi <= lo {
		return m.cfg.MinDelay
	}
	return time.Duration(m.cfg.Decor.Int(int(lo), int(hi))) * time.Millisecond
}

// complete runs on the timer goroutine.
func (m *Manager) complete(s *session, run uint64, state *form.State) {
	out, renderErr := s.tool.Render(state, m.cfg.Decor)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions[s.id] != s || s.run != run || !s.generating {
		return
	}

	s.generating = false
	s.timer = nil
	s.generatedAt = time.Now()
	s.updatedAt = s.generatedAt
	if renderErr != nil {
		s.err = "generation failed"
		m.logger.Error("generation failed", "session_id", s.id, "tool", s.tool.ID(), "error", renderErr)
	} else {
		s.result = out
		m.logger.Info("generation finished", "session_id", s.id, "tool", s.tool.ID(), "bytes", len(out))
	}
	close(s.done)
}

// Cancel stops a pending generation. Cancelling an idle session is a no-op.
func (m *Manager) Cancel(id uuid.UUID) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup("generation.Cancel", id)
	if err != nil {
		return Snapshot{}, err
	}
	if s.generating {
		s.stop()
		s.updatedAt = time.Now()
		m.logger.Info("generation cancelled", "session_id", id)
	}
	return s.snapshot(), nil
}

// Wait blocks until the session is not generating or ctx is done.
func (m *Manager) Wait(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	const op = "generation.Wait"

	m.mu.Lock()
	s, err := m.lookup(op, id)
	if err != nil {
		m.mu.Unlock()
		return Snapshot{}, err
	}
	if !s.generating {
		snap := s.snapshot()
		m.mu.Unlock()
		return snap, nil
	}
	done := s.done
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return Snapshot{}, errx.E(op, errx.Unavailable, ctx.Err())
	case <-done:
		return m.Get(id)
	}
}

// Close discards a session and stops its pending generation.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup("generation.Close", id)
	if err != nil {
		return err
	}
	s.stop()
	delete(m.sessions, id)

	m.logger.Debug("session closed", "session_id", id)
	return nil
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle since before now-TTL. Generating sessions are
// kept. It returns the number of sessions removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-m.cfg.TTL)
	n := 0
	for id, s := range m.sessions {
		if !s.generating && s.updatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.logger.Info("expired sessions swept", "count", n)
	}
	return n
}

// Run sweeps expired sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// Shutdown stops every pending timer and refuses new sessions.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		s.stop()
	}
	m.closed = true
	m.logger.Info("session manager stopped", "sessions", len(m.sessions))
}

func (m *Manager) lookup(op string, id uuid.UUID) (*session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, errx.Ef(op, errx.NotFound, "session %s not found", id)
	}
	return s, nil
}

// stop cancels the pending generation. Callers hold the manager lock.
func (s *session) stop() {
	if !s.generating {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.run++
	s.generating = false
	close(s.done)
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.id,
		Tool:       s.tool.ID(),
		Format:     s.tool.Format,
		Language:   s.tool.Language,
		Values:     s.state.Values(),
		Generating: s.generating,
		Result:     s.result,
		Error:      s.err,
		UpdatedAt:  s.updatedAt,
	}
	if !s.generatedAt.IsZero() {
		at := s.generatedAt
		snap.GeneratedAt = &at
	}
	return snap
}
