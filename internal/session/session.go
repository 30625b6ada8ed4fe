// Package session holds per-session staging state: the ordered entry
// list, dataset temp files, and the assembler that flattens staged
// entries into the final statement sequence at dump time. It also owns
// the explicit SessionRegistry.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/plotworks/gpdrive/internal/dataset"
)

// Runner is the slice of the command executor a session drives. A nil
// Runner makes a "dry" session: entries stage and export normally but
// nothing is ever sent to an engine.
type Runner interface {
	// Execute sends one statement and returns its reply; engine-reported
	// errors come back as *gnuplot.EngineError.
	Execute(text string) (string, error)
	// ExecuteData sends a multi-line inline data block verbatim.
	ExecuteData(block string) error
	// Alive reports whether the engine process is still usable.
	Alive() bool
	// Terminate shuts the engine down and returns its exit status.
	Terminate() (int, error)
	// Pid returns the engine process id, or 0 if there is none.
	Pid() int
}

// Config configures a session.
type Config struct {
	// Runner drives the engine. Nil for a dry session.
	Runner Runner
	// TempDir is the parent for this session's binary temp files.
	// Defaults to <os temp>/gpdrive.
	TempDir string
	// InitStatements are persistent statements (terminal selection,
	// encodings) applied at creation and re-applied after every reset.
	InitStatements []string
	// PreferText forces inline text datasets.
	PreferText bool
	// TextThreshold overrides the text/binary element threshold.
	TextThreshold int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Session owns an ordered entry list and the temp files its binary
// datasets live in. Sessions are single-writer: callers that share one
// across goroutines must serialize access themselves.
type Session struct {
	// ID is unique per session and names its temp directory.
	ID string
	// Name is the caller-chosen session identifier.
	Name string

	runner    Runner
	cfg       Config
	entries   []Entry
	tempFiles []string
	log       *slog.Logger
}

// New creates a session and applies its init statements. When the
// config carries a live runner, the session's temp directory records
// the engine pid so crash cleanup can find orphaned files.
func New(name string, cfg Config) (*Session, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		ID:     uuid.NewString(),
		Name:   name,
		runner: cfg.Runner,
		cfg:    cfg,
		log:    log,
	}
	if err := s.applyInits(); err != nil {
		return nil, err
	}
	if s.runner != nil {
		if pid := s.runner.Pid(); pid > 0 {
			s.writePidFile(pid)
		}
	}
	return s, nil
}

// Live reports whether the session has a usable engine process.
func (s *Session) Live() bool {
	return s.runner != nil && s.runner.Alive()
}

// Entries returns the staged entries in insertion order.
func (s *Session) Entries() []Entry { return s.entries }

// Stage appends an entry. Side effects on a live session: a slot-0
// Command executes immediately so single-plot sessions surface syntax
// errors eagerly, and a NamedDataset's inline block is sent at once so
// later statements can reference it. Commands bound to an explicit
// multiplot slot wait for dump time.
func (s *Session) Stage(e Entry) error {
	if e.slot() < 0 {
		return fmt.Errorf("multiplot slot must not be negative: %d", e.slot())
	}
	s.entries = append(s.entries, e)

	if !s.Live() {
		return nil
	}
	switch v := e.(type) {
	case Command:
		if v.Slot == 0 {
			_, err := s.runner.Execute(v.Text)
			return err
		}
	case NamedDataset:
		if t, ok := v.Data.(*dataset.Text); ok {
			return s.runner.ExecuteData(t.Block(v.Name))
		}
	}
	return nil
}

// Execute sends one statement through the command executor without
// staging it. Useful for interactive queries ("show terminal").
func (s *Session) Execute(text string) (string, error) {
	if !s.Live() {
		return "", fmt.Errorf("session %s has no engine process", s.Name)
	}
	return s.runner.Execute(text)
}

// Encode converts columns using the session's policy and temp
// directory. Binary temp files become owned by this session and are
// deleted on reset, quit, or crash cleanup.
func (s *Session) Encode(cols ...any) (dataset.Dataset, error) {
	d, err := dataset.Encode(dataset.Options{
		PreferText:    s.cfg.PreferText,
		TextThreshold: s.cfg.TextThreshold,
		TempDir:       s.tempDir(),
	}, cols...)
	if err != nil {
		return nil, err
	}
	if b, ok := d.(*dataset.Binary); ok {
		s.tempFiles = append(s.tempFiles, b.Path)
	}
	return d, nil
}

// Reset deletes all temp files owned by prior binary datasets, clears
// the entry list, issues the engine's own reset statement, and
// re-applies the persistent init statements. Calling it twice in a row
// is a no-op the second time.
func (s *Session) Reset() error {
	s.removeTempFiles()
	s.entries = nil
	if s.Live() {
		if _, err := s.runner.Execute("reset session"); err != nil {
			return err
		}
	}
	return s.applyInits()
}

// Quit terminates the engine process, removes the session's temp
// directory, and clears all staged state. It returns the engine's exit
// status (0 for a dry session).
func (s *Session) Quit() (int, error) {
	s.removeTempFiles()
	_ = os.RemoveAll(s.tempDir())
	s.entries = nil
	if s.runner == nil {
		return 0, nil
	}
	return s.runner.Terminate()
}

func (s *Session) applyInits() error {
	if !s.Live() {
		return nil
	}
	for _, stmt := range s.cfg.InitStatements {
		if _, err := s.runner.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) removeTempFiles() {
	for _, path := range s.tempFiles {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("removing dataset temp file", "session", s.Name, "path", path, "err", err)
		}
	}
	s.tempFiles = nil
}

// tempDir is this session's private directory for binary temp files.
func (s *Session) tempDir() string {
	root := s.cfg.TempDir
	if root == "" {
		root = filepath.Join(os.TempDir(), "gpdrive")
	}
	return filepath.Join(root, s.ID)
}

func (s *Session) writePidFile(pid int) {
	dir := s.tempDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Warn("creating session temp dir", "session", s.Name, "err", err)
		return
	}
	path := filepath.Join(dir, "pid")
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		s.log.Warn("writing pid file", "session", s.Name, "err", err)
	}
}
