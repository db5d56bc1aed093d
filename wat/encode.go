package wat

import (
	"encoding/binary"
	"math"
)

type buffer struct {
	bytes []byte
}

func (b *buffer) appendByte(v byte) {
	b.bytes = append(b.bytes, v)
}

func (b *buffer) writeBytes(v []byte) {
	b.bytes = append(b.bytes, v...)
}

// writeU32 writes unsigned LEB128.
func (b *buffer) writeU32(v uint32) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			byt |= 0x80
		}
		b.appendByte(byt)
		if v == 0 {
			break
		}
	}
}

// writeI64 writes signed LEB128.
func (b *buffer) writeI64(v int64) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && byt&0x40 == 0) || (v == -1 && byt&0x40 != 0) {
			b.appendByte(byt)
			break
		}
		b.appendByte(byt | 0x80)
	}
}

func (b *buffer) writeF32(v float32) {
	b.bytes = binary.LittleEndian.AppendUint32(b.bytes, math.Float32bits(v))
}

func (b *buffer) writeF64(v float64) {
	b.bytes = binary.LittleEndian.AppendUint64(b.bytes, math.Float64bits(v))
}

func (b *buffer) writeString(s string) {
	b.writeU32(uint32(len(s)))
	b.writeBytes([]byte(s))
}

func writeSection(buf *buffer, id byte, content *buffer) {
	buf.appendByte(id)
	buf.writeU32(uint32(len(content.bytes)))
	buf.writeBytes(content.bytes)
}

func encode(m *module) []byte {
	buf := &buffer{}
	buf.writeBytes([]byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}) // magic + version

	if len(m.types) > 0 {
		sec := &buffer{}
		sec.writeU32(uint32(len(m.types)))
		for _, ft := range m.types {
			sec.appendByte(funcTypeMarker)
			sec.writeU32(uint32(len(ft.params)))
			for _, p := range ft.params {
				sec.appendByte(byte(p))
			}
			sec.writeU32(uint32(len(ft.results)))
			for _, r := range ft.results {
				sec.appendByte(byte(r))
			}
		}
		writeSection(buf, sectionType, sec)
	}

	if len(m.imports) > 0 {
		sec := &buffer{}
		sec.writeU32(uint32(len(m.imports)))
		for _, imp := range m.imports {
			sec.writeString(imp.module)
			sec.writeString(imp.name)
			sec.appendByte(kindFunc)
			sec.writeU32(imp.typeIdx)
		}
		writeSection(buf, sectionImport, sec)
	}

	if len(m.funcs) == 0 {
		return buf.bytes
	}

	sec := &buffer{}
	sec.writeU32(uint32(len(m.funcs)))
	for _, f := range m.funcs {
		sec.writeU32(f.typeIdx)
	}
	writeSection(buf, sectionFunc, sec)

	exports := &buffer{}
	count := 0
	for i, f := range m.funcs {
		for _, name := range f.exports {
			exports.writeString(name)
			exports.appendByte(kindFunc)
			exports.writeU32(uint32(len(m.imports) + i))
			count++
		}
	}
	if count > 0 {
		sec := &buffer{}
		sec.writeU32(uint32(count))
		sec.writeBytes(exports.bytes)
		writeSection(buf, sectionExport, sec)
	}

	code := &buffer{}
	code.writeU32(uint32(len(m.funcs)))
	for _, f := range m.funcs {
		entry := encodeLocals(f.locals)
		entry.writeBytes(f.code)
		entry.appendByte(opEnd)
		code.writeU32(uint32(len(entry.bytes)))
		code.writeBytes(entry.bytes)
	}
	writeSection(buf, sectionCode, code)

	return buf.bytes
}

// encodeLocals writes locals as runs of identical types.
func encodeLocals(locals []valType) *buffer {
	type run struct {
		n   uint32
		typ valType
	}
	var runs []run
	for _, t := range locals {
		if len(runs) > 0 && runs[len(runs)-1].typ == t {
			runs[len(runs)-1].n++
			continue
		}
		runs = append(runs, run{1, t})
	}

	b := &buffer{}
	b.writeU32(uint32(len(runs)))
	for _, r := range runs {
		b.writeU32(r.n)
		b.appendByte(byte(r.typ))
	}
	return b
}
