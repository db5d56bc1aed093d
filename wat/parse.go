package wat

import (
	"errors"
	"fmt"
	"strings"
)

var errEOF = errors.New("unexpected end of input")

type parser struct {
	mod     *module
	funcMap map[string]uint32
	tokens  []token
	pos     int
}

func newParser(tokens []token) *parser {
	return &parser{
		mod:     &module{},
		funcMap: make(map[string]uint32),
		tokens:  tokens,
	}
}

func (p *parser) peek() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func (p *parser) expect(typ tokenType) (*token, error) {
	t := p.next()
	if t == nil {
		return nil, errEOF
	}
	if t.typ != typ {
		return nil, fmt.Errorf("line %d: expected %v, got %q", t.line, typ, t.value)
	}
	return t, nil
}

// keyword reports the keyword of the parenthesized form at the cursor.
func (p *parser) keyword() string {
	if p.pos+1 >= len(p.tokens) || p.tokens[p.pos].typ != lparen || p.tokens[p.pos+1].typ != ident {
		return ""
	}
	return p.tokens[p.pos+1].value
}

func (p *parser) optionalID() string {
	if t := p.peek(); t != nil && t.typ == ident && strings.HasPrefix(t.value, "$") {
		p.next()
		return t.value
	}
	return ""
}

func (p *parser) parse() (*module, error) {
	if _, err := p.expect(lparen); err != nil {
		return nil, err
	}
	t, err := p.expect(ident)
	if err != nil {
		return nil, err
	}
	if t.value != "module" {
		return nil, fmt.Errorf("line %d: expected 'module', got %q", t.line, t.value)
	}
	p.optionalID()

	for {
		t := p.peek()
		if t == nil {
			return nil, errEOF
		}
		if t.typ == rparen {
			p.next()
			break
		}
		if _, err := p.expect(lparen); err != nil {
			return nil, err
		}
		kw, err := p.expect(ident)
		if err != nil {
			return nil, err
		}
		switch kw.value {
		case "import":
			err = p.parseImport(kw)
		case "func":
			err = p.parseFunc()
		default:
			err = fmt.Errorf("line %d: unsupported module field %q", kw.line, kw.value)
		}
		if err != nil {
			return nil, err
		}
	}
	if t := p.peek(); t != nil {
		return nil, fmt.Errorf("line %d: unexpected %q after module", t.line, t.value)
	}

	for _, f := range p.mod.funcs {
		code, err := p.compile(f)
		if err != nil {
			return nil, err
		}
		f.code = code
	}
	return p.mod, nil
}

func (p *parser) parseImport(kw *token) error {
	if len(p.mod.funcs) > 0 {
		return fmt.Errorf("line %d: import after function definition", kw.line)
	}
	mod, err := p.expect(str)
	if err != nil {
		return err
	}
	name, err := p.expect(str)
	if err != nil {
		return err
	}
	if _, err := p.expect(lparen); err != nil {
		return err
	}
	desc, err := p.expect(ident)
	if err != nil {
		return err
	}
	if desc.value != "func" {
		return fmt.Errorf("line %d: unsupported import kind %q", desc.line, desc.value)
	}
	id := p.optionalID()

	var ft funcType
	for {
		switch p.keyword() {
		case "param":
			p.pos += 2
			types, err := p.parseValTypes(nil, 0)
			if err != nil {
				return err
			}
			ft.params = append(ft.params, types...)
			continue
		case "result":
			p.pos += 2
			types, err := p.parseValTypes(nil, 0)
			if err != nil {
				return err
			}
			ft.results = append(ft.results, types...)
			continue
		}
		break
	}
	if _, err := p.expect(rparen); err != nil {
		return err
	}
	if _, err := p.expect(rparen); err != nil {
		return err
	}

	if err := p.declare(id, desc.line); err != nil {
		return err
	}
	p.mod.imports = append(p.mod.imports, funcImport{
		module:  mod.value,
		name:    name.value,
		typeIdx: p.mod.typeIndex(ft),
	})
	return nil
}

func (p *parser) parseFunc() error {
	line := p.tokens[p.pos-1].line
	f := &function{names: make(map[string]uint32)}
	id := p.optionalID()

	var ft funcType
fields:
	for {
		switch p.keyword() {
		case "export":
			p.pos += 2
			name, err := p.expect(str)
			if err != nil {
				return err
			}
			if _, err := p.expect(rparen); err != nil {
				return err
			}
			f.exports = append(f.exports, name.value)
		case "param":
			if len(ft.results) > 0 || len(f.locals) > 0 {
				return fmt.Errorf("line %d: param after result or local", p.tokens[p.pos].line)
			}
			p.pos += 2
			types, err := p.parseValTypes(f.names, len(ft.params))
			if err != nil {
				return err
			}
			ft.params = append(ft.params, types...)
		case "result":
			if len(f.locals) > 0 {
				return fmt.Errorf("line %d: result after local", p.tokens[p.pos].line)
			}
			p.pos += 2
			types, err := p.parseValTypes(nil, 0)
			if err != nil {
				return err
			}
			ft.results = append(ft.results, types...)
		case "local":
			p.pos += 2
			types, err := p.parseValTypes(f.names, len(ft.params)+len(f.locals))
			if err != nil {
				return err
			}
			f.locals = append(f.locals, types...)
		default:
			break fields
		}
	}

	start := p.pos
	depth := 0
	for {
		t := p.next()
		if t == nil {
			return errEOF
		}
		if t.typ == lparen {
			depth++
		} else if t.typ == rparen {
			if depth == 0 {
				break
			}
			depth--
		}
	}
	f.body = p.tokens[start : p.pos-1]
	f.params = len(ft.params)
	f.typeIdx = p.mod.typeIndex(ft)

	if err := p.declare(id, line); err != nil {
		return err
	}
	p.mod.funcs = append(p.mod.funcs, f)
	return nil
}

// declare binds id to the next function index.
func (p *parser) declare(id string, line int) error {
	if id == "" {
		return nil
	}
	if _, dup := p.funcMap[id]; dup {
		return fmt.Errorf("line %d: duplicate function %s", line, id)
	}
	p.funcMap[id] = uint32(p.mod.funcCount())
	return nil
}

// parseValTypes reads the rest of a param, result or local form. A named
// form declares exactly one value and records it in names at base.
func (p *parser) parseValTypes(names map[string]uint32, base int) ([]valType, error) {
	if t := p.peek(); t != nil && t.typ == ident && strings.HasPrefix(t.value, "$") {
		p.next()
		vt, err := p.parseValType()
		if err != nil {
			return nil, err
		}
		if names != nil {
			if _, dup := names[t.value]; dup {
				return nil, fmt.Errorf("line %d: duplicate local %s", t.line, t.value)
			}
			names[t.value] = uint32(base)
		}
		if _, err := p.expect(rparen); err != nil {
			return nil, err
		}
		return []valType{vt}, nil
	}

	var types []valType
	for {
		t := p.peek()
		if t == nil {
			return nil, errEOF
		}
		if t.typ == rparen {
			p.next()
			return types, nil
		}
		vt, err := p.parseValType()
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
}

func (p *parser) parseValType() (valType, error) {
	t, err := p.expect(ident)
	if err != nil {
		return 0, err
	}
	switch t.value {
	case "i32":
		return valI32, nil
	case "i64":
		return valI64, nil
	case "f32":
		return valF32, nil
	case "f64":
		return valF64, nil
	default:
		return 0, fmt.Errorf("unknown value type: %s", t.value)
	}
}
