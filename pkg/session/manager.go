package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PythonNut/vimish-fold/pkg/fold"
	"github.com/PythonNut/vimish-fold/pkg/foldpath"
	"github.com/PythonNut/vimish-fold/pkg/state"
	"github.com/PythonNut/vimish-fold/pkg/textbuf"
)

// Manager tracks open sessions in insertion order and orchestrates
// persistence around their lifecycles.
type Manager struct {
	mu       sync.Mutex
	store    *state.FileStore
	cfg      *fold.Config
	logger   *zap.Logger
	metrics  *fold.Metrics
	hooks    *Hooks
	excluder Excluder
	sessions []*Session
	byPath   map[string]*Session
	shutdown bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger.Named("session")
		}
	}
}

// WithHooks sets the lifecycle hook registry.
func WithHooks(hooks *Hooks) Option {
	return func(m *Manager) {
		if hooks != nil {
			m.hooks = hooks
		}
	}
}

// WithExcluder sets the persistence exclusion check.
func WithExcluder(ex Excluder) Option {
	return func(m *Manager) {
		m.excluder = ex
	}
}

// WithMetrics sets the fold metrics shared by every engine the manager
// creates.
func WithMetrics(metrics *fold.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a Manager persisting fold sets through store. A nil
// cfg uses fold.DefaultConfig.
func NewManager(store *state.FileStore, cfg *fold.Config, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if cfg == nil {
		cfg = fold.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		store:  store,
		cfg:    cfg,
		logger: zap.NewNop(),
		hooks:  NewHooks(),
		byPath: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Hooks returns the lifecycle hook registry.
func (m *Manager) Hooks() *Hooks {
	return m.hooks
}

// Open registers a buffer as an open document, restores its persisted
// folds, and fires the document_open hook. A path that already has an
// open session is rejected with ErrAlreadyOpen.
func (m *Manager) Open(ctx context.Context, buf textbuf.Buffer) (*Session, error) {
	if buf == nil {
		return nil, ErrNoBuffer
	}

	docPath := m.canonicalPath(buf.Path())

	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil, ErrShutdown
	}
	if docPath != "" {
		if _, ok := m.byPath[docPath]; ok {
			m.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrAlreadyOpen, docPath)
		}
	}

	engOpts := []fold.Option{fold.WithLogger(fold.NewLogger(m.logger))}
	if m.metrics != nil {
		engOpts = append(engOpts, fold.WithMetrics(m.metrics))
	}
	if dec, ok := buf.(textbuf.Decorator); ok {
		engOpts = append(engOpts, fold.WithDecorator(dec))
	}
	engine, err := fold.NewEngine(buf, m.cfg, engOpts...)
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("create fold engine: %w", err)
	}

	s := &Session{
		ID:      "doc_" + uuid.New().String()[:8],
		DocPath: docPath,
		Buffer:  buf,
		Engine:  engine,
	}
	m.sessions = append(m.sessions, s)
	if docPath != "" {
		m.byPath[docPath] = s
	}
	m.mu.Unlock()

	restored := m.Restore(ctx, s)

	m.fireHook(ctx, HookDocumentOpen, map[string]interface{}{
		"document":   s.DocPath,
		"session_id": s.ID,
		"restored":   restored,
	})

	m.logger.Info("document opened",
		zap.String("session_id", s.ID),
		zap.String("document", s.DocPath),
		zap.Bool("restored", restored),
	)
	return s, nil
}

// Close fires the document_close hook, saves the session's fold set, and
// stops tracking it. The fold set is captured before the session is
// forgotten. A save failure is returned, but the session still closes.
func (m *Manager) Close(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrNotOpen
	}

	m.mu.Lock()
	if !m.tracked(s) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotOpen, s.ID)
	}
	m.mu.Unlock()

	m.fireHook(ctx, HookDocumentClose, map[string]interface{}{
		"document":   s.DocPath,
		"session_id": s.ID,
	})

	saveErr := m.save(ctx, s)

	m.mu.Lock()
	m.forget(s)
	m.mu.Unlock()

	m.logger.Info("document closed",
		zap.String("session_id", s.ID),
		zap.String("document", s.DocPath),
	)
	return saveErr
}

// Save persists a session's current fold set. Pathless documents are
// skipped, an empty set removes any stale state file, and excluded
// documents are treated as empty.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrNotOpen
	}
	return m.save(ctx, s)
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	if s.DocPath == "" {
		return nil
	}

	var set state.Set
	if m.excluder != nil && m.excluder.Excluded(s.DocPath) {
		m.logger.Debug("document excluded from persistence",
			zap.String("document", s.DocPath),
		)
	} else {
		regions := s.Engine.Regions()
		set = make(state.Set, 0, len(regions))
		for _, r := range regions {
			set = append(set, state.Span{Start: r.Start, End: r.End})
		}
	}

	if len(set) == 0 {
		// An empty fold set and a missing state file are the same
		// condition; drop any stale record.
		if err := m.store.Remove(s.DocPath); err != nil {
			m.logger.Warn("stale fold set removal failed",
				zap.String("document", s.DocPath),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
		}
		return nil
	}

	if err := m.store.Write(s.DocPath, set); err != nil {
		m.logger.Warn("fold set save failed",
			zap.String("document", s.DocPath),
			zap.Int("spans", len(set)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPersistenceWrite, err)
	}

	m.logger.Debug("fold set saved",
		zap.String("document", s.DocPath),
		zap.Int("spans", len(set)),
	)
	return nil
}

// Restore replays a session's persisted fold set through its engine and
// reports whether at least one fold was restored. A missing, unreadable,
// or malformed state file restores nothing; it never blocks an open.
// Spans that no longer fit the document are skipped individually.
func (m *Manager) Restore(ctx context.Context, s *Session) bool {
	if s == nil || s.DocPath == "" {
		return false
	}

	set, err := m.store.Read(s.DocPath)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			m.logger.Warn("fold set unreadable",
				zap.String("document", s.DocPath),
				zap.Error(err),
			)
		}
		return false
	}

	restored := 0
	for _, sp := range set {
		if _, err := s.Engine.Fold(ctx, sp.Start, sp.End); err != nil {
			m.logger.Warn("persisted fold span skipped",
				zap.String("document", s.DocPath),
				zap.Int("start", sp.Start),
				zap.Int("end", sp.End),
				zap.Error(err),
			)
			continue
		}
		restored++
	}

	// Replayed folds are not "recently unfolded"; restoring must not
	// arm refold.
	s.Engine.ClearRecentlyUnfolded()

	if restored > 0 {
		m.logger.Info("folds restored",
			zap.String("document", s.DocPath),
			zap.Int("count", restored),
			zap.Int("persisted", len(set)),
		)
	}
	return restored > 0
}

// SaveAll saves every open session in insertion order. A failed save is
// logged and recorded in the result; it never stops the sweep.
func (m *Manager) SaveAll(ctx context.Context) *SweepResult {
	res := &SweepResult{}
	for _, s := range m.snapshot() {
		res.Total++
		if err := m.save(ctx, s); err != nil {
			res.Failed = append(res.Failed, s.DocPath)
			continue
		}
		res.Applied++
	}
	return res
}

// RestoreAll replays persisted folds into every open session in
// insertion order.
func (m *Manager) RestoreAll(ctx context.Context) *SweepResult {
	res := &SweepResult{}
	for _, s := range m.snapshot() {
		res.Total++
		if m.Restore(ctx, s) {
			res.Applied++
		}
	}
	return res
}

// Shutdown runs the process-exit sweep: every open session saves, the
// process_exit hook fires, and the manager refuses further opens. Open
// sessions stay usable in memory.
func (m *Manager) Shutdown(ctx context.Context) (*SweepResult, error) {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil, ErrShutdown
	}
	m.shutdown = true
	m.mu.Unlock()

	res := m.SaveAll(ctx)

	m.fireHook(ctx, HookProcessExit, map[string]interface{}{
		"sessions": res.Total,
		"saved":    res.Applied,
		"failed":   len(res.Failed),
	})

	m.logger.Info("shutdown sweep complete",
		zap.Int("sessions", res.Total),
		zap.Int("saved", res.Applied),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}

// Sessions returns the open sessions in insertion order.
func (m *Manager) Sessions() []*Session {
	return m.snapshot()
}

// Get returns the open session for a canonical document path.
func (m *Manager) Get(docPath string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byPath[docPath]
	return s, ok
}

func (m *Manager) snapshot() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

func (m *Manager) tracked(s *Session) bool {
	for _, open := range m.sessions {
		if open == s {
			return true
		}
	}
	return false
}

func (m *Manager) forget(s *Session) {
	for i, open := range m.sessions {
		if open == s {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			break
		}
	}
	if s.DocPath != "" && m.byPath[s.DocPath] == s {
		delete(m.byPath, s.DocPath)
	}
}

// canonicalPath resolves the stable identity a document persists under.
// Resolution failures fall back to the raw path so the document still
// persists, just under a less stable key.
func (m *Manager) canonicalPath(raw string) string {
	if raw == "" {
		return ""
	}
	canon, err := foldpath.Canonicalize(raw)
	if err != nil {
		m.logger.Warn("path canonicalization failed",
			zap.String("path", raw),
			zap.Error(err),
		)
		return raw
	}
	return canon
}

// fireHook runs the registered handlers for a lifecycle event. Hook
// failures are logged and never escalate.
func (m *Manager) fireHook(ctx context.Context, t HookType, data map[string]interface{}) {
	if err := m.hooks.Execute(ctx, t, data); err != nil {
		m.logger.Warn("lifecycle hook failed",
			zap.String("hook", string(t)),
			zap.Error(err),
		)
	}
}
