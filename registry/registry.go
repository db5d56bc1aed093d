package registry

import (
	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/metadata"
)

// Source is the part of the native runtime needed to enumerate images.
type Source interface {
	metadata.Domains
	ImageGetName(img metadata.Image) string
}

// Images maps assembly names to image handles.
type Images struct {
	byName map[string]metadata.Image
	order  []string
}

// Build enumerates every assembly of the current domain. A null domain is
// logged and yields an empty registry.
func Build(src Source) *Images {
	r := &Images{byName: make(map[string]metadata.Image)}

	domain := src.DomainGet()
	if domain.IsNull() {
		Logger().Error("native domain is null, image registry is empty")
		return r
	}

	for _, asm := range src.DomainGetAssemblies(domain) {
		img := src.AssemblyGetImage(asm)
		if img.IsNull() {
			Logger().Debug("assembly has no image", zap.Uint64("assembly", uint64(asm)))
			continue
		}
		name := src.ImageGetName(img)
		if prev, dup := r.byName[name]; dup {
			// the later image replaces the earlier one, keeping its position
			Logger().Debug("duplicate image name",
				zap.String("image", name),
				zap.Uint64("replaced", uint64(prev)),
			)
		} else {
			r.order = append(r.order, name)
		}
		r.byName[name] = img
	}

	Logger().Debug("image registry built", zap.Int("images", len(r.order)))
	return r
}

// Image returns the image registered under name, or the null image.
func (r *Images) Image(name string) (metadata.Image, bool) {
	if r == nil {
		return 0, false
	}
	img, ok := r.byName[name]
	return img, ok
}

// Images returns registered names in registration order.
func (r *Images) Images() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered images.
func (r *Images) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
