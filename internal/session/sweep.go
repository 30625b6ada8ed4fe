package session

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// SweepOrphans removes temp directories left behind by sessions whose
// engine process died without a clean Quit. Only directories carrying a
// pid file are eligible; dry-session directories are cleaned by their
// own Quit. The sweep is guarded by a cross-process file lock so
// concurrent driver invocations don't race over the same directories.
func SweepOrphans(root string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if root == "" {
		root = filepath.Join(os.TempDir(), "gpdrive")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	lock := flock.New(filepath.Join(root, ".sweep.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		// Another invocation is already sweeping.
		return nil
	}
	defer lock.Unlock()

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		raw, err := os.ReadFile(filepath.Join(dir, "pid"))
		if err != nil {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil || pid <= 0 || processAlive(pid) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("sweeping orphaned session dir", "dir", dir, "err", err)
			continue
		}
		log.Debug("swept orphaned session dir", "dir", dir, "pid", pid)
	}
	return nil
}
