package session

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func sessionDir(t *testing.T, root, name, pidContent string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if pidContent != "" {
		if err := os.WriteFile(filepath.Join(dir, "pid"), []byte(pidContent), 0o644); err != nil {
			t.Fatalf("write pid: %v", err)
		}
	}
	return dir
}

func TestSweepOrphans(t *testing.T) {
	root := t.TempDir()

	// Well above any real pid, so certainly not a live process.
	dead := sessionDir(t, root, "dead-session", "999999999")
	live := sessionDir(t, root, "live-session", strconv.Itoa(os.Getpid()))
	noPid := sessionDir(t, root, "dry-session", "")
	garbage := sessionDir(t, root, "garbage-pid", "not-a-pid")

	if err := SweepOrphans(root, discardLogger()); err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}

	if _, err := os.Stat(dead); !os.IsNotExist(err) {
		t.Fatalf("dead session dir survived sweep: %v", err)
	}
	for _, dir := range []string{live, noPid, garbage} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("sweep removed %s: %v", dir, err)
		}
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	sessionDir(t, root, "alive", strconv.Itoa(os.Getpid()))
	sessionDir(t, root, "dead", "999999999")
	sessionDir(t, root, "dry", "")

	infos, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("infos = %+v, want 3 entries", infos)
	}
	byID := make(map[string]DirInfo, len(infos))
	for _, in := range infos {
		byID[in.ID] = in
	}
	if in := byID["alive"]; in.Pid != os.Getpid() || !in.Alive {
		t.Errorf("alive = %+v", in)
	}
	if in := byID["dead"]; in.Pid != 999999999 || in.Alive {
		t.Errorf("dead = %+v", in)
	}
	if in := byID["dry"]; in.Pid != 0 || in.Alive {
		t.Errorf("dry = %+v", in)
	}
}

func TestScanMissingRoot(t *testing.T) {
	infos, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if err != nil || infos != nil {
		t.Fatalf("Scan = (%v, %v), want empty", infos, err)
	}
}

func TestSweepOrphansMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")
	if err := SweepOrphans(root, discardLogger()); err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
}
