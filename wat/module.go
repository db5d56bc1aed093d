package wat

import "slices"

type valType byte

const (
	valI32 valType = 0x7F
	valI64 valType = 0x7E
	valF32 valType = 0x7D
	valF64 valType = 0x7C
)

const (
	sectionType   byte = 1
	sectionImport byte = 2
	sectionFunc   byte = 3
	sectionExport byte = 7
	sectionCode   byte = 10

	funcTypeMarker byte = 0x60
	kindFunc       byte = 0x00
	opEnd          byte = 0x0B
)

type funcType struct {
	params  []valType
	results []valType
}

func (ft funcType) equal(other funcType) bool {
	return slices.Equal(ft.params, other.params) && slices.Equal(ft.results, other.results)
}

type funcImport struct {
	module  string
	name    string
	typeIdx uint32
}

type function struct {
	names   map[string]uint32
	exports []string
	locals  []valType
	body    []token
	code    []byte
	typeIdx uint32
	params  int
}

type module struct {
	types   []funcType
	imports []funcImport
	funcs   []*function
}

func (m *module) typeIndex(ft funcType) uint32 {
	for i, t := range m.types {
		if t.equal(ft) {
			return uint32(i)
		}
	}
	m.types = append(m.types, ft)
	return uint32(len(m.types) - 1)
}

func (m *module) funcCount() int {
	return len(m.imports) + len(m.funcs)
}
