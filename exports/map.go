package exports

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/errors"
)

// RuntimePrefix marks exports that belong to the native runtime API.
// Only these are ever renamed.
const RuntimePrefix = "il2cpp"

// maxLine bounds a single name line.
const maxLine = 64 * 1024

// Map is a verified one-directional mapping from obfuscated export name to
// true export name.
type Map struct {
	names map[string]string
	order []string
}

// Load builds a Map from two count-prefixed name sources. nameA and nameB
// identify the sources in errors.
func Load(a, b io.Reader, nameA, nameB string) (*Map, error) {
	keys, err := readCounted(a, nameA)
	if err != nil {
		return nil, err
	}
	values, err := readCounted(b, nameB)
	if err != nil {
		return nil, err
	}
	if len(keys) != len(values) {
		return nil, errors.CountMismatch(errors.PhaseLoad, nameA, len(keys), nameB, len(values))
	}

	names := make(map[string]string, len(keys))
	order := make([]string, 0, len(keys))
	for i, key := range keys {
		if _, dup := names[key]; dup {
			return nil, errors.DuplicateKey(errors.PhaseLoad, nameA, key)
		}
		names[key] = values[i]
		order = append(order, key)
	}

	Logger().Debug("export name map loaded",
		zap.String("obfuscated", nameA),
		zap.String("true", nameB),
		zap.Int("count", len(order)),
	)

	return &Map{names: names, order: order}, nil
}

// LoadFiles opens both sources from disk and calls Load.
func LoadFiles(pathA, pathB string) (*Map, error) {
	fa, err := open(pathA)
	if err != nil {
		return nil, err
	}
	defer fa.Close()

	fb, err := open(pathB)
	if err != nil {
		return nil, err
	}
	defer fb.Close()

	return Load(fa, fb, filepath.Base(pathA), filepath.Base(pathB))
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			e := errors.NotFound(errors.PhaseLoad, "file", path)
			e.Cause = err
			return nil, e
		}
		return nil, errors.Load(path, err)
	}
	return f, nil
}

// readCounted reads a count header followed by exactly that many lines.
func readCounted(r io.Reader, source string) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Load(source, err)
	}

	if len(lines) == 0 {
		return nil, errors.Empty(errors.PhaseLoad, source)
	}

	count, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || count < 0 {
		return nil, errors.InvalidCount(errors.PhaseLoad, source, lines[0])
	}

	if len(lines) != count+1 {
		return nil, errors.LineMismatch(errors.PhaseLoad, source, count+1, len(lines))
	}

	return lines[1:], nil
}

// TrueName returns the true export name for an obfuscated one.
func (m *Map) TrueName(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.names[name]
	return v, ok
}

// Export returns the name to look up in the library for a requested export.
// Names outside the runtime API are never renamed and pass through.
func (m *Map) Export(name string) (string, bool) {
	if !strings.HasPrefix(name, RuntimePrefix) {
		return name, true
	}
	return m.TrueName(name)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Each calls fn for every entry in source order until fn returns false.
func (m *Map) Each(fn func(obfuscated, trueName string) bool) {
	if m == nil {
		return
	}
	for _, k := range m.order {
		if !fn(k, m.names[k]) {
			return
		}
	}
}
