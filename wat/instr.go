package wat

import (
	"fmt"
	"strconv"
	"strings"
)

type immKind int

const (
	immNone immKind = iota
	immLocal
	immFunc
	immI32
	immI64
	immF32
	immF64
)

type instruction struct {
	opcode byte
	imm    immKind
}

var instructions = map[string]instruction{
	"unreachable":      {0x00, immNone},
	"nop":              {0x01, immNone},
	"return":           {0x0F, immNone},
	"call":             {0x10, immFunc},
	"drop":             {0x1A, immNone},
	"local.get":        {0x20, immLocal},
	"local.set":        {0x21, immLocal},
	"local.tee":        {0x22, immLocal},
	"i32.const":        {0x41, immI32},
	"i64.const":        {0x42, immI64},
	"f32.const":        {0x43, immF32},
	"f64.const":        {0x44, immF64},
	"i32.add":          {0x6A, immNone},
	"i32.sub":          {0x6B, immNone},
	"i64.add":          {0x7C, immNone},
	"i64.sub":          {0x7D, immNone},
	"i32.wrap_i64":     {0xA7, immNone},
	"i64.extend_i32_s": {0xAC, immNone},
	"i64.extend_i32_u": {0xAD, immNone},
}

type compiler struct {
	mod    *module
	funcs  map[string]uint32
	f      *function
	tokens []token
	buf    buffer
	pos    int
}

func (p *parser) compile(f *function) ([]byte, error) {
	c := &compiler{mod: p.mod, funcs: p.funcMap, f: f, tokens: f.body}
	for c.pos < len(c.tokens) {
		if err := c.instr(); err != nil {
			return nil, err
		}
	}
	return c.buf.bytes, nil
}

func (c *compiler) instr() error {
	t := c.tokens[c.pos]
	c.pos++

	switch t.typ {
	case lparen:
		if c.pos >= len(c.tokens) {
			return errEOF
		}
		op := c.tokens[c.pos]
		c.pos++
		in, err := c.lookup(op)
		if err != nil {
			return err
		}
		imm, err := c.immediate(op, in)
		if err != nil {
			return err
		}
		// folded operands are evaluated before the operator
		for {
			if c.pos >= len(c.tokens) {
				return errEOF
			}
			if c.tokens[c.pos].typ == rparen {
				c.pos++
				break
			}
			if c.tokens[c.pos].typ != lparen {
				return fmt.Errorf("line %d: expected folded operand, got %q", c.tokens[c.pos].line, c.tokens[c.pos].value)
			}
			if err := c.instr(); err != nil {
				return err
			}
		}
		c.emit(in, imm)
		return nil
	case ident:
		in, err := c.lookup(t)
		if err != nil {
			return err
		}
		imm, err := c.immediate(t, in)
		if err != nil {
			return err
		}
		c.emit(in, imm)
		return nil
	default:
		return fmt.Errorf("line %d: unexpected %v %q", t.line, t.typ, t.value)
	}
}

func (c *compiler) lookup(t token) (instruction, error) {
	in, ok := instructions[t.value]
	if t.typ != ident || !ok {
		return instruction{}, fmt.Errorf("line %d: unknown instruction %q", t.line, t.value)
	}
	return in, nil
}

func (c *compiler) emit(in instruction, imm []byte) {
	c.buf.appendByte(in.opcode)
	c.buf.writeBytes(imm)
}

func (c *compiler) immediate(op token, in instruction) ([]byte, error) {
	if in.imm == immNone {
		return nil, nil
	}
	if c.pos >= len(c.tokens) || (c.tokens[c.pos].typ != ident && c.tokens[c.pos].typ != number) {
		return nil, fmt.Errorf("line %d: %s expects an immediate", op.line, op.value)
	}
	t := c.tokens[c.pos]
	c.pos++

	var b buffer
	switch in.imm {
	case immLocal:
		idx, err := index(t, c.f.names, "local")
		if err != nil {
			return nil, err
		}
		if int(idx) >= c.f.params+len(c.f.locals) {
			return nil, fmt.Errorf("line %d: local index %d out of range", t.line, idx)
		}
		b.writeU32(idx)
	case immFunc:
		idx, err := index(t, c.funcs, "function")
		if err != nil {
			return nil, err
		}
		if int(idx) >= c.mod.funcCount() {
			return nil, fmt.Errorf("line %d: function index %d out of range", t.line, idx)
		}
		b.writeU32(idx)
	case immI32:
		v, err := parseInt(t, 32)
		if err != nil {
			return nil, err
		}
		b.writeI64(int64(int32(v)))
	case immI64:
		v, err := parseInt(t, 64)
		if err != nil {
			return nil, err
		}
		b.writeI64(v)
	case immF32:
		v, err := parseFloat(t, 32)
		if err != nil {
			return nil, err
		}
		b.writeF32(float32(v))
	case immF64:
		v, err := parseFloat(t, 64)
		if err != nil {
			return nil, err
		}
		b.writeF64(v)
	}
	return b.bytes, nil
}

func index(t token, names map[string]uint32, what string) (uint32, error) {
	if strings.HasPrefix(t.value, "$") {
		idx, ok := names[t.value]
		if !ok {
			return 0, fmt.Errorf("line %d: unknown %s %s", t.line, what, t.value)
		}
		return idx, nil
	}
	v, err := strconv.ParseUint(t.value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s index %q", t.line, what, t.value)
	}
	return uint32(v), nil
}

// parseInt accepts both signed and unsigned spellings of a bits-wide value.
func parseInt(t token, bits int) (int64, error) {
	s := strings.ReplaceAll(t.value, "_", "")
	if v, err := strconv.ParseInt(s, 0, bits); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 0, bits)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid integer %q", t.line, t.value)
	}
	return int64(u), nil
}

func parseFloat(t token, bits int) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(t.value, "_", ""), bits)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid float %q", t.line, t.value)
	}
	return v, nil
}
