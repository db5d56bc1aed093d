package snapshot

import (
	"sync"

	"github.com/wippyai/il2cpp-runtime/metadata"
)

// Runtime is an in-memory native runtime described by a Document.
// Handles are small positive integers; iteration follows declaration order.
// It is safe for concurrent readers.
type Runtime struct {
	typeIDs   map[string]metadata.Type
	icalls    map[string]uintptr
	images    []*image
	classes   []*class
	methods   []*method
	fields    []*field
	typeNames []string

	invokeMu sync.Mutex
	invoke   func(m metadata.Method, obj uintptr, args []uintptr) (uintptr, uintptr)
}

type image struct {
	name string
	top  []*class
	all  []*class
}

type class struct {
	image      *image
	outer      *class
	def        *class
	namespace  string
	name       string
	definition string
	nested     []*class
	fields     []*field
	methods    []*method
	handle     metadata.Class
	valueType  bool
	inflated   bool
}

func (c *class) fullName() string {
	if c.namespace == "" {
		return c.name
	}
	return c.namespace + "." + c.name
}

type method struct {
	owner   *class
	name    string
	params  []metadata.Type
	ret     metadata.Type
	handle  metadata.Method
	token   uint32
	generic bool
}

type field struct {
	owner  *class
	name   string
	typ    metadata.Type
	offset uintptr
	handle metadata.Field
}

var _ metadata.Runtime = (*Runtime)(nil)
var _ metadata.Invoker = (*Runtime)(nil)

const domain metadata.Domain = 1

func (rt *Runtime) classOf(c metadata.Class) *class {
	if c == 0 || int(c) > len(rt.classes) {
		return nil
	}
	return rt.classes[c-1]
}

func (rt *Runtime) methodOf(m metadata.Method) *method {
	if m == 0 || int(m) > len(rt.methods) {
		return nil
	}
	return rt.methods[m-1]
}

func (rt *Runtime) fieldOf(f metadata.Field) *field {
	if f == 0 || int(f) > len(rt.fields) {
		return nil
	}
	return rt.fields[f-1]
}

func (rt *Runtime) imageOf(img metadata.Image) *image {
	if img == 0 || int(img) > len(rt.images) {
		return nil
	}
	return rt.images[img-1]
}

// next advances the cursor over a list of n elements and returns the index
// to yield, or -1 at the end.
func next(it *metadata.Iter, n int) int {
	if it == nil {
		return -1
	}
	i := int(*it)
	if i >= n {
		return -1
	}
	*it = metadata.Iter(i + 1)
	return i
}

func (rt *Runtime) DomainGet() metadata.Domain { return domain }

func (rt *Runtime) DomainGetAssemblies(d metadata.Domain) []metadata.Assembly {
	if d != domain {
		return nil
	}
	out := make([]metadata.Assembly, len(rt.images))
	for i := range rt.images {
		out[i] = metadata.Assembly(i + 1)
	}
	return out
}

func (rt *Runtime) AssemblyGetImage(a metadata.Assembly) metadata.Image {
	if a == 0 || int(a) > len(rt.images) {
		return 0
	}
	return metadata.Image(a)
}

func (rt *Runtime) ImageGetName(img metadata.Image) string {
	if i := rt.imageOf(img); i != nil {
		return i.name
	}
	return ""
}

func (rt *Runtime) ImageGetClassCount(img metadata.Image) int {
	if i := rt.imageOf(img); i != nil {
		return len(i.all)
	}
	return 0
}

func (rt *Runtime) ImageGetClass(img metadata.Image, index int) metadata.Class {
	i := rt.imageOf(img)
	if i == nil || index < 0 || index >= len(i.all) {
		return 0
	}
	return i.all[index].handle
}

func (rt *Runtime) ClassFromName(img metadata.Image, namespace, name string) metadata.Class {
	i := rt.imageOf(img)
	if i == nil {
		return 0
	}
	for _, c := range i.top {
		if c.namespace == namespace && c.name == name {
			return c.handle
		}
	}
	return 0
}

func (rt *Runtime) ClassGetName(c metadata.Class) string {
	if k := rt.classOf(c); k != nil {
		return k.name
	}
	return ""
}

func (rt *Runtime) ClassGetNamespace(c metadata.Class) string {
	if k := rt.classOf(c); k != nil {
		return k.namespace
	}
	return ""
}

func (rt *Runtime) ClassGetFieldFromName(c metadata.Class, name string) metadata.Field {
	k := rt.classOf(c)
	if k == nil {
		return 0
	}
	for _, f := range k.fields {
		if f.name == name {
			return f.handle
		}
	}
	return 0
}

func (rt *Runtime) ClassGetFields(c metadata.Class, it *metadata.Iter) metadata.Field {
	k := rt.classOf(c)
	if k == nil {
		return 0
	}
	if i := next(it, len(k.fields)); i >= 0 {
		return k.fields[i].handle
	}
	return 0
}

func (rt *Runtime) ClassGetMethods(c metadata.Class, it *metadata.Iter) metadata.Method {
	k := rt.classOf(c)
	if k == nil {
		return 0
	}
	if i := next(it, len(k.methods)); i >= 0 {
		return k.methods[i].handle
	}
	return 0
}

// ClassGetNestedTypes yields nothing for inflated classes, like the native
// iterator does.
func (rt *Runtime) ClassGetNestedTypes(c metadata.Class, it *metadata.Iter) metadata.Class {
	k := rt.classOf(c)
	if k == nil || k.inflated {
		return 0
	}
	if i := next(it, len(k.nested)); i >= 0 {
		return k.nested[i].handle
	}
	return 0
}

func (rt *Runtime) ClassIsInflated(c metadata.Class) bool {
	k := rt.classOf(c)
	return k != nil && k.inflated
}

func (rt *Runtime) ClassIsValueType(c metadata.Class) bool {
	k := rt.classOf(c)
	return k != nil && k.valueType
}

func (rt *Runtime) MethodGetName(m metadata.Method) string {
	if x := rt.methodOf(m); x != nil {
		return x.name
	}
	return ""
}

func (rt *Runtime) MethodGetToken(m metadata.Method) uint32 {
	if x := rt.methodOf(m); x != nil {
		return x.token
	}
	return 0
}

func (rt *Runtime) MethodGetParamCount(m metadata.Method) int {
	if x := rt.methodOf(m); x != nil {
		return len(x.params)
	}
	return 0
}

func (rt *Runtime) MethodGetParam(m metadata.Method, index int) metadata.Type {
	x := rt.methodOf(m)
	if x == nil || index < 0 || index >= len(x.params) {
		return 0
	}
	return x.params[index]
}

func (rt *Runtime) MethodGetReturnType(m metadata.Method) metadata.Type {
	if x := rt.methodOf(m); x != nil {
		return x.ret
	}
	return 0
}

func (rt *Runtime) MethodIsGeneric(m metadata.Method) bool {
	x := rt.methodOf(m)
	return x != nil && x.generic
}

func (rt *Runtime) MethodGetClass(m metadata.Method) metadata.Class {
	if x := rt.methodOf(m); x != nil {
		return x.owner.handle
	}
	return 0
}

func (rt *Runtime) FieldGetName(f metadata.Field) string {
	if x := rt.fieldOf(f); x != nil {
		return x.name
	}
	return ""
}

func (rt *Runtime) FieldGetType(f metadata.Field) metadata.Type {
	if x := rt.fieldOf(f); x != nil {
		return x.typ
	}
	return 0
}

func (rt *Runtime) FieldGetOffset(f metadata.Field) uintptr {
	if x := rt.fieldOf(f); x != nil {
		return x.offset
	}
	return 0
}

func (rt *Runtime) TypeGetName(t metadata.Type) string {
	if t == 0 || int(t) > len(rt.typeNames) {
		return ""
	}
	return rt.typeNames[t-1]
}

func (rt *Runtime) ResolveICall(signature string) uintptr {
	return rt.icalls[signature]
}

// NestedType walks the nested types of the generic definition of an
// inflated class. It stands in for managed reflection metadata.
func (rt *Runtime) NestedType(c metadata.Class, name string) metadata.Class {
	k := rt.classOf(c)
	if k == nil {
		return 0
	}
	if k.def != nil {
		k = k.def
	}
	for _, n := range k.nested {
		if n.name == name {
			return n.handle
		}
	}
	return 0
}

// OnInvoke installs the function RuntimeInvoke forwards to.
func (rt *Runtime) OnInvoke(fn func(m metadata.Method, obj uintptr, args []uintptr) (result, exception uintptr)) {
	rt.invokeMu.Lock()
	rt.invoke = fn
	rt.invokeMu.Unlock()
}

// RuntimeInvoke calls the installed invoke hook. Without one it returns
// zero results.
func (rt *Runtime) RuntimeInvoke(m metadata.Method, obj uintptr, args []uintptr) (uintptr, uintptr) {
	rt.invokeMu.Lock()
	fn := rt.invoke
	rt.invokeMu.Unlock()
	if fn == nil {
		return 0, 0
	}
	return fn(m, obj, args)
}
