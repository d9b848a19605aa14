package apigen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// Scope collects auxiliary type declarations produced by override
// emitters. Declarations are deduplicated by name and emitted after the
// generated interface, sorted for stable output.
type Scope struct {
	decls map[string]string
}

// AddType records an auxiliary declaration under name. A repeated name
// keeps the first declaration.
func (s *Scope) AddType(name, decl string) {
	if s.decls == nil {
		s.decls = make(map[string]string)
	}
	if _, ok := s.decls[name]; !ok {
		s.decls[name] = decl
	}
}

func (s *Scope) render(buf *bytes.Buffer) {
	names := make([]string, 0, len(s.decls))
	for n := range s.decls {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		buf.WriteString("\n")
		buf.WriteString(s.decls[n])
		buf.WriteString("\n")
	}
}

// Generator emits Go source for a schema, consulting an override
// registry for paths whose schema type does not map cleanly to Go.
type Generator struct {
	// Package is the emitted package name.
	Package string
	// Overrides is consulted per "Owner.member.arg" path. Defaults()
	// when nil.
	Overrides *Overrides
}

var fileTmpl = template.Must(template.New("file").Parse(
	`// Code generated by apigen. DO NOT EDIT.

package {{.Package}}
`))

// Generate renders Go declarations for every interface in the schema.
func (g *Generator) Generate(s *Schema) ([]byte, error) {
	ov := g.Overrides
	if ov == nil {
		ov = Defaults()
	}
	pkg := g.Package
	if pkg == "" {
		pkg = "bindings"
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, struct{ Package string }{pkg}); err != nil {
		return nil, fmt.Errorf("apigen: render header: %w", err)
	}

	scope := &Scope{}
	for _, iface := range s.Interfaces {
		if err := g.emitInterface(&buf, scope, ov, iface); err != nil {
			return nil, err
		}
	}
	scope.render(&buf)
	return buf.Bytes(), nil
}

func (g *Generator) emitInterface(buf *bytes.Buffer, scope *Scope, ov *Overrides, iface Interface) error {
	// Option bags first, so the interface reads top-down.
	for _, m := range iface.Members {
		if m.Kind != KindMethod {
			continue
		}
		for _, a := range m.Args {
			if len(a.Fields) == 0 {
				continue
			}
			g.emitOptions(buf, scope, ov, iface.Name, m, a)
		}
	}

	buf.WriteString("\n")
	if iface.Comment != "" {
		writeComment(buf, iface.Comment, "")
	}
	fmt.Fprintf(buf, "type %s interface {\n", iface.Name)
	for _, m := range iface.Members {
		switch m.Kind {
		case KindMethod:
			g.emitMethod(buf, scope, ov, iface.Name, m)
		case KindProperty:
			fmt.Fprintf(buf, "\t%s() %s\n", exported(m.Name), g.goType(scope, ov, path(iface.Name, m.Name), m.Type))
		case KindEvent:
			payload := g.goType(scope, ov, path(iface.Name, m.Name), m.Type)
			fmt.Fprintf(buf, "\tOn%s(handler func(%s))\n", exported(m.Name), payload)
			fmt.Fprintf(buf, "\tOff%s(handler func(%s))\n", exported(m.Name), payload)
		}
	}
	buf.WriteString("}\n")
	return nil
}

func (g *Generator) emitMethod(buf *bytes.Buffer, scope *Scope, ov *Overrides, owner string, m Member) {
	var params []string
	for _, a := range m.Args {
		if len(a.Fields) > 0 {
			params = append(params, fmt.Sprintf("opts ...*%s%sOptions", owner, exported(m.Name)))
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", a.Name, g.goType(scope, ov, path(owner, m.Name, a.Name), a.Type)))
	}

	ret := ""
	if m.Type != "" && m.Type != "void" {
		ret = fmt.Sprintf("(%s, error)", g.goType(scope, ov, path(owner, m.Name), m.Type))
	} else {
		ret = "error"
	}
	fmt.Fprintf(buf, "\t%s(%s) %s\n", exported(m.Name), strings.Join(params, ", "), ret)
}

func (g *Generator) emitOptions(buf *bytes.Buffer, scope *Scope, ov *Overrides, owner string, m Member, options Arg) {
	name := fmt.Sprintf("%s%sOptions", owner, exported(m.Name))
	fmt.Fprintf(buf, "\ntype %s struct {\n", name)
	for _, f := range options.Fields {
		typ := g.goType(scope, ov, path(owner, m.Name, "options", f.Name), f.Type)
		fmt.Fprintf(buf, "\t%s *%s\n", exported(f.Name), strings.TrimPrefix(typ, "*"))
	}
	buf.WriteString("}\n")
	for _, f := range options.Fields {
		typ := strings.TrimPrefix(g.goType(scope, ov, path(owner, m.Name, "options", f.Name), f.Type), "*")
		fmt.Fprintf(buf, "\nfunc (o *%s) With%s(v %s) *%s {\n\to.%s = &v\n\treturn o\n}\n",
			name, exported(f.Name), typ, name, exported(f.Name))
	}
}

// goType maps a schema type expression to Go, applying registry
// overrides first.
func (g *Generator) goType(scope *Scope, ov *Overrides, p, schemaType string) string {
	if m, ok := ov.Lookup(p); ok {
		if m.Custom != nil {
			m.Custom.EmitTypes(scope)
		}
		return m.To
	}
	return defaultGoType(schemaType)
}

func defaultGoType(t string) string {
	switch {
	case t == "" || t == "void":
		return ""
	case t == "string":
		return "string"
	case t == "number":
		return "float64"
	case t == "int":
		return "int"
	case t == "boolean":
		return "bool"
	case t == "Object":
		return "map[string]interface{}"
	case t == "any" || t == "Serializable":
		return "interface{}"
	case t == "function":
		return "func(...interface{}) (interface{}, error)"
	case strings.HasPrefix(t, "Array<") && strings.HasSuffix(t, ">"):
		return "[]" + defaultGoType(t[len("Array<"):len(t)-1])
	case strings.Contains(t, "|"):
		// Unions without an override collapse to interface{}; a
		// registry entry is the way to narrow them.
		return "interface{}"
	default:
		return t
	}
}

func path(parts ...string) string { return strings.Join(parts, ".") }

func exported(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func writeComment(buf *bytes.Buffer, text, indent string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fmt.Fprintf(buf, "%s// %s\n", indent, line)
	}
}
