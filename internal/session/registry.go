package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// RegistryConfig configures session creation.
type RegistryConfig struct {
	// Spawn creates the engine runner for a new session. Nil makes
	// every session dry.
	Spawn func() (Runner, error)
	// TempDir, InitStatements, PreferText, TextThreshold and Logger are
	// passed through to each session's Config.
	TempDir        string
	InitStatements []string
	PreferText     bool
	TextThreshold  int
	Logger         *slog.Logger
}

// Registry owns the named sessions of one driver instance. It replaces
// the process-wide session dictionary of older designs with an explicit
// value: create it where the application starts and pass it down.
//
// Lifecycle matches the old behavior: a session is created on first
// reference to its name and destroyed only by an explicit Quit, which
// also terminates the engine process and removes temp files.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      RegistryConfig
}

// NewRegistry returns an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// Get returns the session for name, creating it (and spawning its
// engine process) on first use.
func (r *Registry) Get(name string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[name]; ok {
		return s, nil
	}

	var runner Runner
	if r.cfg.Spawn != nil {
		var err error
		runner, err = r.cfg.Spawn()
		if err != nil {
			return nil, err
		}
	}
	s, err := New(name, Config{
		Runner:         runner,
		TempDir:        r.cfg.TempDir,
		InitStatements: r.cfg.InitStatements,
		PreferText:     r.cfg.PreferText,
		TextThreshold:  r.cfg.TextThreshold,
		Logger:         r.cfg.Logger,
	})
	if err != nil {
		if runner != nil {
			_, _ = runner.Terminate()
		}
		return nil, err
	}
	r.sessions[name] = s
	return s, nil
}

// List returns the registered session names, sorted.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Quit tears down one session: engine terminated, temp files removed,
// name released. Returns the engine's exit status.
func (r *Registry) Quit(name string) (int, error) {
	r.mu.Lock()
	s, ok := r.sessions[name]
	if ok {
		delete(r.sessions, name)
	}
	r.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("unknown session: %s", name)
	}
	return s.Quit()
}

// QuitAll tears down every session, keeping the first error.
func (r *Registry) QuitAll() error {
	var firstErr error
	for _, name := range r.List() {
		if _, err := r.Quit(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
