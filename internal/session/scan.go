package session

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DirInfo describes one session temp directory on disk.
type DirInfo struct {
	// ID is the directory name, the session's unique id.
	ID string
	// Pid is the engine pid recorded at creation, 0 for a dry session.
	Pid int
	// Alive reports whether that engine process still exists.
	Alive bool
}

// Scan lists the session temp directories under root, the same set
// SweepOrphans operates on. A missing root yields an empty list.
func Scan(root string) ([]DirInfo, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "gpdrive")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []DirInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info := DirInfo{ID: e.Name()}
		raw, err := os.ReadFile(filepath.Join(root, e.Name(), "pid"))
		if err == nil {
			if pid, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil && pid > 0 {
				info.Pid = pid
				info.Alive = processAlive(pid)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}
