package snapshot

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/metadata"
)

// Document is the YAML form of a snapshot.
type Document struct {
	Images []ImageDoc         `yaml:"images"`
	ICalls map[string]uintptr `yaml:"icalls"`
}

// ImageDoc describes one image and the classes it defines.
type ImageDoc struct {
	Name    string     `yaml:"name"`
	Classes []ClassDoc `yaml:"classes"`
}

// ClassDoc describes a class. Definition names the generic definition
// ("Namespace.Name") of an inflated class.
type ClassDoc struct {
	Namespace  string      `yaml:"namespace"`
	Name       string      `yaml:"name"`
	Definition string      `yaml:"definition"`
	Nested     []ClassDoc  `yaml:"nested"`
	Fields     []FieldDoc  `yaml:"fields"`
	Methods    []MethodDoc `yaml:"methods"`
	ValueType  bool        `yaml:"value_type"`
	Inflated   bool        `yaml:"inflated"`
}

// FieldDoc describes a field.
type FieldDoc struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	Offset uintptr `yaml:"offset"`
}

// MethodDoc describes a method. Return defaults to System.Void.
type MethodDoc struct {
	Name    string   `yaml:"name"`
	Return  string   `yaml:"return"`
	Params  []string `yaml:"params"`
	Token   uint32   `yaml:"token"`
	Generic bool     `yaml:"generic"`
}

// Load reads a snapshot from a YAML file.
func Load(path string) (*Runtime, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			e := errors.NotFound(errors.PhaseLoad, "snapshot", path)
			e.Cause = err
			return nil, e
		}
		return nil, errors.Load(path, err)
	}
	rt, err := Parse(data)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Source == "" {
			e.Source = path
		}
		return nil, err
	}
	return rt, nil
}

// Parse builds a runtime from a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Runtime, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "malformed snapshot")
	}
	return Build(&doc)
}

// Build builds a runtime from an already decoded document.
func Build(doc *Document) (*Runtime, error) {
	rt := &Runtime{
		typeIDs: make(map[string]metadata.Type),
		icalls:  make(map[string]uintptr, len(doc.ICalls)),
	}
	for sig, addr := range doc.ICalls {
		rt.icalls[sig] = addr
	}

	seen := make(map[string]bool, len(doc.Images))
	for _, id := range doc.Images {
		if id.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseLoad, "image without a name")
		}
		if seen[id.Name] {
			return nil, errors.DuplicateKey(errors.PhaseLoad, "snapshot", id.Name)
		}
		seen[id.Name] = true

		img := &image{name: id.Name}
		rt.images = append(rt.images, img)
		for i := range id.Classes {
			c, err := rt.addClass(img, nil, &id.Classes[i])
			if err != nil {
				return nil, err
			}
			img.top = append(img.top, c)
		}
	}

	if err := rt.linkDefinitions(); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *Runtime) addClass(img *image, outer *class, cd *ClassDoc) (*class, error) {
	if cd.Name == "" {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Source(img.name).
			Detail("class without a name").
			Build()
	}

	c := &class{
		image:      img,
		outer:      outer,
		namespace:  cd.Namespace,
		name:       cd.Name,
		definition: cd.Definition,
		valueType:  cd.ValueType,
		inflated:   cd.Inflated,
	}
	if outer != nil && c.namespace == "" {
		c.namespace = outer.namespace
	}
	rt.classes = append(rt.classes, c)
	c.handle = metadata.Class(len(rt.classes))
	img.all = append(img.all, c)

	for _, fd := range cd.Fields {
		f := &field{owner: c, name: fd.Name, typ: rt.intern(fd.Type), offset: fd.Offset}
		rt.fields = append(rt.fields, f)
		f.handle = metadata.Field(len(rt.fields))
		c.fields = append(c.fields, f)
	}

	for _, md := range cd.Methods {
		ret := md.Return
		if ret == "" {
			ret = "System.Void"
		}
		m := &method{
			owner:   c,
			name:    md.Name,
			token:   md.Token,
			generic: md.Generic,
			ret:     rt.intern(ret),
		}
		for _, p := range md.Params {
			m.params = append(m.params, rt.intern(p))
		}
		rt.methods = append(rt.methods, m)
		m.handle = metadata.Method(len(rt.methods))
		c.methods = append(c.methods, m)
	}

	for i := range cd.Nested {
		n, err := rt.addClass(img, c, &cd.Nested[i])
		if err != nil {
			return nil, err
		}
		c.nested = append(c.nested, n)
	}
	return c, nil
}

func (rt *Runtime) linkDefinitions() error {
	for _, c := range rt.classes {
		if c.definition == "" {
			continue
		}
		def := rt.findByFullName(c.definition)
		if def == nil {
			return errors.NotFound(errors.PhaseLoad, "generic definition", c.definition)
		}
		c.def = def
	}
	return nil
}

func (rt *Runtime) findByFullName(full string) *class {
	for _, c := range rt.classes {
		if c.outer == nil && c.fullName() == full {
			return c
		}
	}
	return nil
}

func (rt *Runtime) intern(name string) metadata.Type {
	if t, ok := rt.typeIDs[name]; ok {
		return t
	}
	rt.typeNames = append(rt.typeNames, name)
	t := metadata.Type(len(rt.typeNames))
	rt.typeIDs[name] = t
	return t
}
