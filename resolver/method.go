package resolver

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/managed"
	"github.com/wippyai/il2cpp-runtime/metadata"
)

// Outcome reports how a method lookup was satisfied.
type Outcome uint8

const (
	// Found is an exact match.
	Found Outcome = iota
	// Stubbed is the single candidate with the right name, arity and
	// genericity, accepted although its types did not match.
	Stubbed
	// Missing means no usable method; Handle is a placeholder.
	Missing
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Stubbed:
		return "stubbed"
	case Missing:
		return "missing"
	}
	return "unknown"
}

// MethodResult is the result of a method lookup. Handle is never null.
type MethodResult struct {
	// Key names the placeholder when Outcome is Missing.
	Key     string
	Handle  metadata.Method
	Outcome Outcome
}

// Resolved reports whether Handle is a native method.
func (m MethodResult) Resolved() bool { return m.Outcome != Missing }

// Query describes a method by signature. Type names are native-rendered
// strings as produced by managed.Render.
type Query struct {
	Name       string
	ReturnType string
	Params     []string
	Generic    bool
}

// Signature builds a query from managed type descriptors.
func Signature(name string, generic bool, ret *managed.Type, params ...*managed.Type) Query {
	return Query{
		Name:       name,
		Generic:    generic,
		ReturnType: managed.Render(ret, false),
		Params:     managed.RenderAll(params),
	}
}

// Normalized returns a copy of q with every type name normalized.
func (q Query) Normalized() Query {
	q.ReturnType = managed.Normalize(q.ReturnType)
	q.Params = managed.NormalizeAll(q.Params)
	return q
}

func (q Query) String() string {
	return q.ReturnType + " " + q.Name + "(" + strings.Join(q.Params, ", ") + ")"
}

func (q Query) key() string {
	return q.Name + "(" + strings.Join(q.Params, ", ") + ")"
}

// MethodByToken finds the method of class with the given metadata token.
func (r *Resolver) MethodByToken(class metadata.Class, token uint32) MethodResult {
	if class.IsNull() {
		return r.missing(strconv.FormatUint(uint64(token), 10))
	}

	var it metadata.Iter
	for m := r.rt.ClassGetMethods(class, &it); !m.IsNull(); m = r.rt.ClassGetMethods(class, &it) {
		if r.rt.MethodGetToken(m) == token {
			return MethodResult{Handle: m, Outcome: Found}
		}
	}

	key := r.rt.ClassGetName(class) + "::" + strconv.FormatUint(uint64(token), 10)
	Logger().Debug("method token not found",
		zap.String("class", r.className(class)),
		zap.Uint32("token", token),
	)
	return r.missing(key)
}

// Method finds the method of class matching q. The first method in native
// order matching name, arity, genericity, return type and every parameter
// type wins. A null class yields a placeholder keyed by q as given, before
// normalization.
func (r *Resolver) Method(class metadata.Class, q Query) MethodResult {
	if class.IsNull() {
		return r.missing(q.key())
	}
	q = q.Normalized()

	var (
		it        metadata.Iter
		seen      int
		candidate metadata.Method
	)
	for m := r.rt.ClassGetMethods(class, &it); !m.IsNull(); m = r.rt.ClassGetMethods(class, &it) {
		if r.rt.MethodGetName(m) != q.Name {
			continue
		}
		if r.rt.MethodGetParamCount(m) != len(q.Params) {
			continue
		}
		if r.rt.MethodIsGeneric(m) != q.Generic {
			continue
		}
		seen++
		candidate = m

		if r.typeName(r.rt.MethodGetReturnType(m)) != q.ReturnType {
			continue
		}
		if r.paramsMatch(m, q.Params) {
			return MethodResult{Handle: m, Outcome: Found}
		}
	}

	if seen == 1 {
		Logger().Debug("method stubbed",
			zap.String("class", r.className(class)),
			zap.String("requested", q.String()),
			zap.String("actual", r.Describe(candidate)),
		)
		return MethodResult{Handle: candidate, Outcome: Stubbed}
	}

	Logger().Debug("method not found",
		zap.String("class", r.className(class)),
		zap.String("requested", q.String()),
		zap.Int("candidates", seen),
		zap.Strings("same_name", r.sameName(class, q.Name)),
	)
	return r.missing(r.rt.ClassGetName(class) + "::" + q.key())
}

func (r *Resolver) paramsMatch(m metadata.Method, params []string) bool {
	for i, want := range params {
		if r.typeName(r.rt.MethodGetParam(m, i)) != want {
			return false
		}
	}
	return true
}

// sameName describes every method of class called name.
func (r *Resolver) sameName(class metadata.Class, name string) []string {
	var out []string
	var it metadata.Iter
	for m := r.rt.ClassGetMethods(class, &it); !m.IsNull(); m = r.rt.ClassGetMethods(class, &it) {
		if r.rt.MethodGetName(m) == name {
			out = append(out, r.Describe(m))
		}
	}
	return out
}

// Describe renders the native signature of m, e.g.
// "System.Void Heal(System.Int32)". Generic methods carry a "<>" marker.
func (r *Resolver) Describe(m metadata.Method) string {
	if key, ok := r.placeholders.Lookup(m); ok {
		return "<unresolved " + key + ">"
	}

	n := r.rt.MethodGetParamCount(m)
	params := make([]string, n)
	for i := range n {
		params[i] = r.typeName(r.rt.MethodGetParam(m, i))
	}

	var b strings.Builder
	b.WriteString(r.typeName(r.rt.MethodGetReturnType(m)))
	b.WriteByte(' ')
	b.WriteString(r.rt.MethodGetName(m))
	if r.rt.MethodIsGeneric(m) {
		b.WriteString("<>")
	}
	b.WriteByte('(')
	b.WriteString(strings.Join(params, ", "))
	b.WriteByte(')')
	return b.String()
}

func (r *Resolver) typeName(t metadata.Type) string {
	return managed.Normalize(r.rt.TypeGetName(t))
}

func (r *Resolver) missing(key string) MethodResult {
	return MethodResult{
		Handle:  r.placeholders.Method(key),
		Key:     key,
		Outcome: Missing,
	}
}
