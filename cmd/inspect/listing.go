package main

import (
	"strings"

	"github.com/wippyai/il2cpp-runtime/metadata"
	"github.com/wippyai/il2cpp-runtime/resolver"
)

type imageRow struct {
	name    string
	image   metadata.Image
	classes int
}

type classRow struct {
	name  string
	class metadata.Class
}

type methodRow struct {
	signature string
	method    metadata.Method
}

func imageRows(r *resolver.Resolver) []imageRow {
	md := r.Runtime()
	var rows []imageRow
	for _, name := range r.Images().Images() {
		img, _ := r.Images().Image(name)
		rows = append(rows, imageRow{name: name, image: img, classes: md.ImageGetClassCount(img)})
	}
	return rows
}

func classRows(r *resolver.Resolver, img metadata.Image) []classRow {
	md := r.Runtime()
	n := md.ImageGetClassCount(img)
	rows := make([]classRow, 0, n)
	for i := range n {
		c := md.ImageGetClass(img, i)
		if c.IsNull() {
			continue
		}
		name := md.ClassGetName(c)
		if ns := md.ClassGetNamespace(c); ns != "" {
			name = ns + "." + name
		}
		rows = append(rows, classRow{name: name, class: c})
	}
	return rows
}

func methodRows(r *resolver.Resolver, class metadata.Class) []methodRow {
	md := r.Runtime()
	var rows []methodRow
	var it metadata.Iter
	for m := md.ClassGetMethods(class, &it); !m.IsNull(); m = md.ClassGetMethods(class, &it) {
		rows = append(rows, methodRow{signature: r.Describe(m), method: m})
	}
	return rows
}

func fieldRows(r *resolver.Resolver, class metadata.Class) []string {
	md := r.Runtime()
	var rows []string
	var it metadata.Iter
	for f := md.ClassGetFields(class, &it); !f.IsNull(); f = md.ClassGetFields(class, &it) {
		rows = append(rows, md.TypeGetName(md.FieldGetType(f))+" "+md.FieldGetName(f))
	}
	return rows
}

// queryOf builds the signature query that describes m exactly.
func queryOf(r *resolver.Resolver, m metadata.Method) resolver.Query {
	md := r.Runtime()
	n := md.MethodGetParamCount(m)
	params := make([]string, n)
	for i := range n {
		params[i] = md.TypeGetName(md.MethodGetParam(m, i))
	}
	return resolver.Query{
		Name:       md.MethodGetName(m),
		ReturnType: md.TypeGetName(md.MethodGetReturnType(m)),
		Params:     params,
		Generic:    md.MethodIsGeneric(m),
	}
}

// splitParams splits a comma-separated parameter list, keeping commas
// inside generic argument brackets.
func splitParams(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

func filterRows[T any](rows []T, filter string, text func(T) string) []T {
	if filter == "" {
		return rows
	}
	filter = strings.ToLower(filter)
	var out []T
	for _, row := range rows {
		if strings.Contains(strings.ToLower(text(row)), filter) {
			out = append(out, row)
		}
	}
	return out
}
