package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:      PhaseBridge,
				Kind:       KindTypeMismatch,
				Path:       []string{"UnityEngine.Transform", "position"},
				GoType:     "string",
				NativeType: "UnityEngine.Vector3",
				Detail:     "cannot convert",
			},
			contains: []string{"[bridge]", "type_mismatch", "UnityEngine.Transform::position", "string", "UnityEngine.Vector3", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseResolve,
				Kind:  KindNotFound,
			},
			contains: []string{"[resolve]", "not_found"},
		},
		{
			name: "error with source",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindLineMismatch,
				Source: "savedSecretName.txt",
				Detail: "expected 6 lines, found 5",
			},
			contains: []string{"[load]", "line_mismatch", "in savedSecretName.txt", "expected 6 lines"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBind,
				Kind:   KindMissingExport,
				Detail: "il2cpp_init",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[bind]", "missing_export", "il2cpp_init", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseLoad,
		Kind:   KindDuplicateKey,
		Source: "a.txt",
	}

	if !err.Is(&Error{Phase: PhaseLoad, Kind: KindDuplicateKey}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseResolve, Kind: KindDuplicateKey}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseLoad, Kind: KindCountMismatch}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseLoad, Kind: KindDuplicateKey}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseBridge, KindTypeMismatch).
		Source("GameAssembly").
		Path("Player", "health").
		GoType("string").
		NativeType("System.Int32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseBridge {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseBridge)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if err.Source != "GameAssembly" {
		t.Errorf("Source = %v, want GameAssembly", err.Source)
	}
	if len(err.Path) != 2 || err.Path[0] != "Player" || err.Path[1] != "health" {
		t.Errorf("Path = %v, want [Player health]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.NativeType != "System.Int32" {
		t.Errorf("NativeType = %v, want 'System.Int32'", err.NativeType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v, want 'expected string, got int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidCount", func(t *testing.T) {
		err := InvalidCount(PhaseLoad, "a.txt", "five")
		if err.Kind != KindInvalidCount {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidCount)
		}
		if !strings.Contains(err.Detail, "five") {
			t.Errorf("Detail = %v, should contain header", err.Detail)
		}
	})

	t.Run("LineMismatch", func(t *testing.T) {
		err := LineMismatch(PhaseLoad, "a.txt", 6, 5)
		if err.Kind != KindLineMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindLineMismatch)
		}
		if err.Value != 5 {
			t.Errorf("Value = %v, want 5", err.Value)
		}
	})

	t.Run("CountMismatch", func(t *testing.T) {
		err := CountMismatch(PhaseLoad, "a.txt", 3, "b.txt", 4)
		if err.Kind != KindCountMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindCountMismatch)
		}
		if !strings.Contains(err.Detail, "b.txt") {
			t.Errorf("Detail = %v, should name both sources", err.Detail)
		}
	})

	t.Run("DuplicateKey", func(t *testing.T) {
		err := DuplicateKey(PhaseLoad, "a.txt", "il2cpp_init")
		if err.Kind != KindDuplicateKey {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDuplicateKey)
		}
		if err.Value != "il2cpp_init" {
			t.Errorf("Value = %v, want il2cpp_init", err.Value)
		}
	})

	t.Run("Unresolved", func(t *testing.T) {
		err := Unresolved("icall", "UnityEngine.Time::get_time")
		if err.Phase != PhaseInvoke || err.Kind != KindUnresolved {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Error(), "UnityEngine.Time::get_time was not resolved") {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseBridge, []string{"ptr"}, "*Player")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
		if err.GoType != "*Player" {
			t.Errorf("GoType = %v, want '*Player'", err.GoType)
		}
	})

	t.Run("Stale", func(t *testing.T) {
		err := Stale(PhaseLoad, "savedGAhash.txt", "size changed")
		if err.Kind != KindStale {
			t.Errorf("Kind = %v, want %v", err.Kind, KindStale)
		}
	})

	t.Run("Exception", func(t *testing.T) {
		err := Exception([]string{"Game.Player", "Heal"}, 0x1f00)
		if err.Phase != PhaseInvoke || err.Kind != KindException {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Error(), "0x1f00") || !strings.Contains(err.Error(), "Game.Player::Heal") {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseInvoke, "float arguments")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})
}

func TestMissingExportsError(t *testing.T) {
	t.Run("single export", func(t *testing.T) {
		err := NewMissingExportsError([]MissingExport{{Library: "GameAssembly", Name: "il2cpp_init"}})
		if len(err.Exports) != 1 {
			t.Errorf("expected 1 export, got %d", len(err.Exports))
		}
		if err.Exports[0].Name != "il2cpp_init" {
			t.Errorf("name = %q, want il2cpp_init", err.Exports[0].Name)
		}
	})

	t.Run("grouped by library", func(t *testing.T) {
		err := NewMissingExportsError([]MissingExport{
			{Library: "GameAssembly", Name: "il2cpp_init", Reason: "no mapping"},
			{Library: "UnityPlayer", Name: "UnityMain"},
			{Library: "GameAssembly", Name: "il2cpp_shutdown"},
		})
		msg := err.Error()
		if !strings.Contains(msg, "missing 3 native export(s)") {
			t.Errorf("error should contain count, got: %s", msg)
		}
		if !strings.Contains(msg, "GameAssembly:") || !strings.Contains(msg, "UnityPlayer:") {
			t.Errorf("error should group by library, got: %s", msg)
		}
		if !strings.Contains(msg, "il2cpp_init (no mapping)") {
			t.Errorf("error should include reason, got: %s", msg)
		}
		if strings.Index(msg, "il2cpp_shutdown") > strings.Index(msg, "UnityPlayer") {
			t.Errorf("exports of one library should be listed together, got: %s", msg)
		}
	})

	t.Run("empty exports", func(t *testing.T) {
		err := NewMissingExportsError(nil)
		if !strings.Contains(err.Error(), "no exports specified") {
			t.Errorf("empty error should have specific message, got: %s", err.Error())
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := NewMissingExportsError([]MissingExport{{Name: "x"}})
		if !errors.Is(err, &MissingExportsError{}) {
			t.Error("errors.Is should match MissingExportsError")
		}
	})
}
