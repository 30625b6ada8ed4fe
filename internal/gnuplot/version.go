package gnuplot

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// MinEngineVersion is the minimum gnuplot version the driver supports.
// Named inline data blocks and GPVAL_ERRMSG both need 5.2.
const MinEngineVersion = "5.2"

var versionTokenRe = regexp.MustCompile(`^\d+(\.\d+)*$`)

// EngineVersion runs `<path> --version` and returns the first
// whitespace-delimited token that parses as a dotted version number.
func EngineVersion(path string) (string, error) {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s --version: %w", path, err)
	}
	v := parseVersionOutput(string(out))
	if v == "" {
		return "", fmt.Errorf("no version number in %s --version output: %q", path, strings.TrimSpace(string(out)))
	}
	return v, nil
}

// CheckEngine verifies the engine binary exists and meets the minimum
// version. It fails fast, before any interactive process is spawned.
func CheckEngine(path, minVersion string) error {
	if minVersion == "" {
		minVersion = MinEngineVersion
	}
	if _, err := exec.LookPath(path); err != nil {
		return &SpawnError{Path: path, Err: err}
	}
	v, err := EngineVersion(path)
	if err != nil {
		return &SpawnError{Path: path, Err: err}
	}
	if compareVersions(v, minVersion) < 0 {
		return &SpawnError{Path: path, Err: fmt.Errorf("version %s below minimum %s", v, minVersion)}
	}
	return nil
}

// parseVersionOutput extracts the version token from --version output,
// e.g. "gnuplot 5.4 patchlevel 2" -> "5.4".
func parseVersionOutput(out string) string {
	for _, f := range strings.Fields(out) {
		if versionTokenRe.MatchString(f) {
			return f
		}
	}
	return ""
}

// compareVersions compares two dotted versions numerically.
// Returns -1, 0, or 1.
func compareVersions(a, b string) int {
	aParts := parseVersion(a)
	bParts := parseVersion(b)
	for i := 0; i < 3; i++ {
		if aParts[i] != bParts[i] {
			if aParts[i] < bParts[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// parseVersion parses "X.Y.Z" into [3]int. Missing parts are zero.
func parseVersion(v string) [3]int {
	var parts [3]int
	for i, s := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(s)
		if err != nil {
			break
		}
		parts[i] = n
	}
	return parts
}
