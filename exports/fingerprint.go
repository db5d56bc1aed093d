package exports

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wippyai/il2cpp-runtime/errors"
)

// Fingerprint identifies the library build a name map was extracted from.
// The extraction step records the library's size in bytes.
type Fingerprint struct {
	Size int64
}

// ReadFingerprint parses a saved fingerprint file.
func ReadFingerprint(path string) (Fingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Fingerprint{}, errors.NotFound(errors.PhaseLoad, "fingerprint", path)
		}
		return Fingerprint{}, errors.Load(path, err)
	}
	size, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || size < 0 {
		return Fingerprint{}, errors.InvalidCount(errors.PhaseLoad, path, strings.TrimSpace(string(data)))
	}
	return Fingerprint{Size: size}, nil
}

// WriteFingerprint records the current size of the library at libraryPath.
func WriteFingerprint(path, libraryPath string) error {
	info, err := os.Stat(libraryPath)
	if err != nil {
		return errors.Load(libraryPath, err)
	}
	if err := os.WriteFile(path, []byte(strconv.FormatInt(info.Size(), 10)), 0o644); err != nil {
		return errors.Load(path, err)
	}
	return nil
}

// CheckFingerprint reports whether the name map next to fingerprintPath was
// produced for the library currently at libraryPath.
func CheckFingerprint(fingerprintPath, libraryPath string) error {
	fp, err := ReadFingerprint(fingerprintPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(libraryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(errors.PhaseLoad, "library", libraryPath)
		}
		return errors.Load(libraryPath, err)
	}
	if info.Size() != fp.Size {
		return errors.Stale(errors.PhaseLoad, fingerprintPath,
			fmt.Sprintf("library size %d differs from recorded %d", info.Size(), fp.Size))
	}
	return nil
}
