package managed

import "strings"

// il2cppPrefix marks binding types that wrap a runtime type of the same name.
const il2cppPrefix = "Il2Cpp"

// stringArrayName is how the runtime reports a string array.
const stringArrayName = "System.String[]"

// Render returns the name the native runtime reports for t. When asRef is
// set the result names a by-reference slot of t (out/ref parameters).
func Render(t *Type, asRef bool) string {
	var b strings.Builder
	render(&b, t)
	if asRef {
		b.WriteByte('&')
	}
	return b.String()
}

// RenderAll renders each type without a reference marker.
func RenderAll(ts []*Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = Render(t, false)
	}
	return out
}

func render(b *strings.Builder, t *Type) {
	if t == nil {
		return
	}

	switch t.Kind {
	case KindArray:
		render(b, t.Elem)
		b.WriteString("[]")
		return
	case KindByRef:
		render(b, t.Elem)
		b.WriteByte('&')
		return
	case KindPointer:
		render(b, t.Elem)
		b.WriteByte('*')
		return
	case KindGenericParam:
		b.WriteString(t.Name)
		return
	case KindGeneric:
		if derivesFromArrayBase(t) && len(t.Args) > 0 {
			render(b, t.Args[0])
			b.WriteString("[]")
			return
		}
		if t.Definition != nil {
			b.WriteString(clean(t.Definition.name()))
		}
		b.WriteByte('<')
		for i, arg := range t.Args {
			if i != 0 {
				b.WriteByte(',')
			}
			render(b, arg)
		}
		b.WriteByte('>')
		return
	}

	if t.FullName == StringArrayName {
		b.WriteString(stringArrayName)
		return
	}
	b.WriteString(clean(t.name()))
}

var arrayBase = Normalize(ArrayBaseName)

// derivesFromArrayBase walks the base chain of t looking for the generic
// array wrapper definition, compared by normalized name.
func derivesFromArrayBase(t *Type) bool {
	for cur := t; cur != nil; {
		def := cur
		if cur.Kind == KindGeneric && cur.Definition != nil {
			def = cur.Definition
		}
		if Normalize(def.name()) == arrayBase {
			return true
		}
		next := cur.Base
		if next == nil && cur.Kind == KindGeneric && cur.Definition != nil {
			next = cur.Definition.Base
		}
		cur = next
	}
	return false
}

func clean(name string) string {
	return strings.TrimPrefix(Normalize(name), il2cppPrefix)
}

// Normalize strips every generic arity marker ("`" followed by digits) and
// maps nested-type separators ('/' and '+') to '.'.
func Normalize(s string) string {
	if strings.IndexAny(s, "`/+") < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '`':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j > i+1 {
				i = j - 1
				continue
			}
			b.WriteByte(c)
		case '/', '+':
			b.WriteByte('.')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NormalizeAll returns a normalized copy of names.
func NormalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Normalize(n)
	}
	return out
}
