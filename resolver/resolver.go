package resolver

import (
	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/metadata"
	"github.com/wippyai/il2cpp-runtime/registry"
	"github.com/wippyai/il2cpp-runtime/trampoline"
)

// Reflection resolves nested types through managed reflection metadata.
// It is consulted for inflated generic classes, whose native nested-type
// iterator is unreliable.
type Reflection interface {
	NestedType(class metadata.Class, name string) metadata.Class
}

// AddressBinder turns a native entry point into a typed Go function.
type AddressBinder interface {
	// BindAddress stores a callable for addr in the function variable
	// fptr points to.
	BindAddress(fptr any, addr uintptr) error
}

// Resolver answers class, field, nested type, method and intrinsic call
// queries against a native runtime.
type Resolver struct {
	rt           metadata.Runtime
	images       *registry.Images
	reflection   Reflection
	placeholders *trampoline.Placeholders
	invoker      metadata.Invoker
	binder       AddressBinder
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithReflection sets the reflection fallback for nested types of inflated
// classes. Without one, rt is used when it implements Reflection.
func WithReflection(r Reflection) Option {
	return func(res *Resolver) { res.reflection = r }
}

// WithPlaceholders shares a placeholder registry between resolvers.
func WithPlaceholders(p *trampoline.Placeholders) Option {
	return func(res *Resolver) { res.placeholders = p }
}

// WithInvoker sets the native invoker used by Invoke. Without one, rt is
// used when it implements metadata.Invoker.
func WithInvoker(inv metadata.Invoker) Option {
	return func(res *Resolver) { res.invoker = inv }
}

// WithBinder sets how resolved intrinsic call addresses become Go
// functions.
func WithBinder(b AddressBinder) Option {
	return func(res *Resolver) { res.binder = b }
}

// New creates a resolver over rt. images must already be built.
func New(rt metadata.Runtime, images *registry.Images, opts ...Option) *Resolver {
	r := &Resolver{rt: rt, images: images}
	if refl, ok := rt.(Reflection); ok {
		r.reflection = refl
	}
	if inv, ok := rt.(metadata.Invoker); ok {
		r.invoker = inv
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.placeholders == nil {
		r.placeholders = trampoline.NewPlaceholders()
	}
	return r
}

// Runtime returns the underlying accessors.
func (r *Resolver) Runtime() metadata.Runtime { return r.rt }

// Images returns the image registry.
func (r *Resolver) Images() *registry.Images { return r.images }

// Placeholders returns the registry placeholder handles are minted from.
func (r *Resolver) Placeholders() *trampoline.Placeholders { return r.placeholders }

// Class finds a class by namespace and name in the image of assembly.
func (r *Resolver) Class(assembly, namespace, name string) metadata.Class {
	img, ok := r.images.Image(assembly)
	if !ok {
		Logger().Error("assembly is not registered",
			zap.String("assembly", assembly),
			zap.String("namespace", namespace),
			zap.String("class", name),
		)
		return 0
	}

	c := r.rt.ClassFromName(img, namespace, name)
	if c.IsNull() {
		Logger().Debug("class not found",
			zap.String("assembly", assembly),
			zap.String("namespace", namespace),
			zap.String("class", name),
		)
	}
	return c
}

// Field finds a field of class by name.
func (r *Resolver) Field(class metadata.Class, name string) metadata.Field {
	if class.IsNull() {
		return 0
	}
	f := r.rt.ClassGetFieldFromName(class, name)
	if f.IsNull() {
		Logger().Error("field not found",
			zap.String("class", r.className(class)),
			zap.String("field", name),
		)
	}
	return f
}

// NestedType finds a type nested in class by its simple name.
func (r *Resolver) NestedType(class metadata.Class, name string) metadata.Class {
	if class.IsNull() {
		return 0
	}

	if r.rt.ClassIsInflated(class) {
		if r.reflection == nil {
			Logger().Error("nested type of inflated class needs reflection metadata",
				zap.String("class", r.className(class)),
				zap.String("nested", name),
			)
			return 0
		}
		nested := r.reflection.NestedType(class, name)
		if nested.IsNull() {
			Logger().Error("nested type not found",
				zap.String("class", r.className(class)),
				zap.String("nested", name),
				zap.Bool("inflated", true),
			)
		}
		return nested
	}

	var it metadata.Iter
	for nested := r.rt.ClassGetNestedTypes(class, &it); !nested.IsNull(); nested = r.rt.ClassGetNestedTypes(class, &it) {
		if r.rt.ClassGetName(nested) == name {
			return nested
		}
	}

	Logger().Error("nested type not found",
		zap.String("class", r.className(class)),
		zap.String("nested", name),
	)
	return 0
}

// className returns the namespace-qualified name of class.
func (r *Resolver) className(class metadata.Class) string {
	name := r.rt.ClassGetName(class)
	if ns := r.rt.ClassGetNamespace(class); ns != "" {
		return ns + "." + name
	}
	return name
}
