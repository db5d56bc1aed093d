package registry

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/il2cpp-runtime/metadata"
)

type fakeDomain struct {
	domain metadata.Domain
	images map[metadata.Assembly]metadata.Image
	names  map[metadata.Image]string
	order  []metadata.Assembly
}

func (f *fakeDomain) DomainGet() metadata.Domain { return f.domain }

func (f *fakeDomain) DomainGetAssemblies(metadata.Domain) []metadata.Assembly { return f.order }

func (f *fakeDomain) AssemblyGetImage(a metadata.Assembly) metadata.Image { return f.images[a] }

func (f *fakeDomain) ImageGetName(img metadata.Image) string { return f.names[img] }

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestBuild(t *testing.T) {
	logs := observe(t)
	src := &fakeDomain{
		domain: 1,
		order:  []metadata.Assembly{11, 12, 13, 14},
		images: map[metadata.Assembly]metadata.Image{11: 101, 12: 102, 13: 0, 14: 104},
		names:  map[metadata.Image]string{101: "mscorlib", 102: "Assembly-CSharp", 104: "mscorlib"},
	}

	r := Build(src)
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}

	tests := []struct {
		name string
		want metadata.Image
		ok   bool
	}{
		{"mscorlib", 104, true},
		{"Assembly-CSharp", 102, true},
		{"UnityEngine", 0, false},
	}
	for _, tt := range tests {
		got, ok := r.Image(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Image(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}

	if logs.FilterMessage("duplicate image name").Len() != 1 {
		t.Errorf("expected one duplicate log, got %v", logs.All())
	}

	names := r.Images()
	if len(names) != 2 || names[0] != "mscorlib" || names[1] != "Assembly-CSharp" {
		t.Errorf("Images = %v", names)
	}
	names[0] = "changed"
	if r.Images()[0] != "mscorlib" {
		t.Error("Images should return a copy")
	}
}

func TestBuild_NullDomain(t *testing.T) {
	logs := observe(t)

	r := Build(&fakeDomain{})
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	if _, ok := r.Image("mscorlib"); ok {
		t.Error("empty registry should not resolve")
	}
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Errorf("expected one error log, got %v", logs.All())
	}
}

func TestImages_Nil(t *testing.T) {
	var r *Images
	if r.Len() != 0 || r.Images() != nil {
		t.Error("nil registry should be empty")
	}
	if img, ok := r.Image("x"); ok || !img.IsNull() {
		t.Error("nil registry should not resolve")
	}
}
