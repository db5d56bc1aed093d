package runtime

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	rterrors "github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/managed"
	"github.com/wippyai/il2cpp-runtime/metadata/snapshot"
	"github.com/wippyai/il2cpp-runtime/resolver"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Library:     DefaultLibrary,
		Names:       Names{Obfuscated: DefaultObfuscated, True: DefaultTrue},
		Fingerprint: DefaultFingerprint,
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
library: /opt/game/GameAssembly.so
names:
  obfuscated: a.txt
  true: b.txt
strict_fingerprint: true
log_level: debug
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Library != "/opt/game/GameAssembly.so" || cfg.Names.Obfuscated != "a.txt" || cfg.Names.True != "b.txt" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.StrictFingerprint || cfg.StrictExports {
		t.Errorf("strict flags = %v, %v", cfg.StrictFingerprint, cfg.StrictExports)
	}
	if cfg.Fingerprint != DefaultFingerprint {
		t.Errorf("fingerprint = %q, want default", cfg.Fingerprint)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind rterrors.Kind
	}{
		{"unknown field", "libary: x\n", rterrors.KindInvalidData},
		{"bad yaml", "names: [\n", rterrors.KindInvalidData},
		{"bad log level", "log_level: loud\n", rterrors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseConfig, Kind: tt.kind}) {
				t.Errorf("err = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "il2cpp.yaml", "library: GameAssembly.dll\nnames:\n  true: /abs/b.txt\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Library != filepath.Join(dir, "GameAssembly.dll") {
		t.Errorf("library = %q", cfg.Library)
	}
	if cfg.Names.Obfuscated != filepath.Join(dir, DefaultObfuscated) {
		t.Errorf("obfuscated = %q", cfg.Names.Obfuscated)
	}
	if cfg.Names.True != "/abs/b.txt" {
		t.Errorf("absolute paths must be kept, got %q", cfg.Names.True)
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseConfig, Kind: rterrors.KindNotFound}) {
		t.Errorf("missing file err = %v", err)
	}

	bad := writeFile(t, dir, "bad.yaml", "log_level: loud\n")
	_, err = LoadConfig(bad)
	var e *rterrors.Error
	if !errors.As(err, &e) || e.Source != bad {
		t.Errorf("err = %v, want source %s", err, bad)
	}
}

func nameFiles(t *testing.T, dir string) Config {
	t.Helper()
	return Config{
		Library:     filepath.Join(dir, "GameAssembly.so"),
		Names:       Names{Obfuscated: writeFile(t, dir, "a.txt", "1\nil2cpp_init\n"), True: writeFile(t, dir, "b.txt", "1\nzz_1\n")},
		Fingerprint: filepath.Join(dir, "hash.txt"),
		Logger:      zap.NewNop(),
	}
}

func TestOpen_Failures(t *testing.T) {
	t.Run("missing name map", func(t *testing.T) {
		cfg := Config{Names: Names{Obfuscated: filepath.Join(t.TempDir(), "a.txt"), True: "b.txt"}}
		_, err := Open(cfg)
		if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseLoad, Kind: rterrors.KindNotFound}) {
			t.Errorf("err = %v, want load not_found", err)
		}
	})

	t.Run("malformed name map", func(t *testing.T) {
		dir := t.TempDir()
		cfg := nameFiles(t, dir)
		cfg.Names.True = writeFile(t, dir, "b.txt", "2\nzz_1\nzz_2\n")
		_, err := Open(cfg)
		if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseLoad, Kind: rterrors.KindCountMismatch}) {
			t.Errorf("err = %v, want count_mismatch", err)
		}
	})

	t.Run("stale fingerprint is fatal when strict", func(t *testing.T) {
		dir := t.TempDir()
		cfg := nameFiles(t, dir)
		writeFile(t, dir, "GameAssembly.so", "not really a library")
		writeFile(t, dir, "hash.txt", "1")
		cfg.StrictFingerprint = true
		_, err := Open(cfg)
		if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseLoad, Kind: rterrors.KindStale}) {
			t.Errorf("err = %v, want stale", err)
		}
	})

	t.Run("missing library", func(t *testing.T) {
		cfg := nameFiles(t, t.TempDir())
		_, err := Open(cfg)
		if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBind, Kind: rterrors.KindNotFound}) {
			t.Errorf("err = %v, want bind not_found", err)
		}
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := nameFiles(t, t.TempDir())
		cfg.Logger = nil
		cfg.LogLevel = "loud"
		_, err := Open(cfg)
		if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseConfig, Kind: rterrors.KindInvalidInput}) {
			t.Errorf("err = %v, want invalid_input", err)
		}
	})
}

const fixture = `
images:
  - name: mscorlib
    classes:
      - {namespace: System, name: Int32, value_type: true}
  - name: Assembly-CSharp
    classes:
      - namespace: Game
        name: Player
        methods:
          - {name: Heal, token: 1, params: [System.Int32]}
          - {name: Heal, token: 2, params: [System.Single]}
icalls:
  "UnityEngine.Time::get_time": 4096
`

func TestNew_Snapshot(t *testing.T) {
	snap, err := snapshot.Parse([]byte(fixture))
	if err != nil {
		t.Fatal(err)
	}
	rt := New(snap)

	if rt.Images.Len() != 2 {
		t.Fatalf("images = %d, want 2", rt.Images.Len())
	}
	if rt.Bridge != nil || rt.Native != nil || rt.MissingExports() != nil {
		t.Error("snapshot runtime has no native parts")
	}

	player := rt.Resolver.Class("Assembly-CSharp", "Game", "Player")
	if player.IsNull() {
		t.Fatal("class not resolved")
	}
	heal := rt.Resolver.Method(player, resolver.Signature("Heal", false, managed.Void, managed.Single))
	if heal.Outcome != resolver.Found {
		t.Errorf("Heal(Single) = %+v", heal)
	}
	if tok := snap.MethodGetToken(heal.Handle); tok != 2 {
		t.Errorf("token = %d, want 2", tok)
	}
	if _, ok := rt.Resolver.ICallAddress("UnityEngine.Time::get_time"); !ok {
		t.Error("icall not resolved")
	}
	if err := rt.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}
