// Package apigen generates Go binding surfaces from the upstream
// automation API schema. The schema's literal types do not always map
// cleanly onto Go; the override registry records, per dotted API path,
// the type to emit instead.
package apigen

import "fmt"

// TypeEmitter emits auxiliary type declarations needed by an override
// (for example a helper alias next to the rewritten parameter). The
// zero-behavior implementation EmitNothing is used when the override
// only rewrites the type name.
type TypeEmitter interface {
	EmitTypes(s *Scope)
}

// EmitNothing is a TypeEmitter that declares nothing.
type EmitNothing struct{}

func (EmitNothing) EmitTypes(*Scope) {}

// Mapping is one override descriptor: emit To where the schema says
// From.
type Mapping struct {
	// From is the schema type expression being overridden.
	From string
	// To is the type name to emit instead.
	To string
	// Custom, when non-nil, emits auxiliary declarations.
	Custom TypeEmitter
}

// DuplicateEntryError reports a second registration for a path already
// present. A generator run treats this as fatal: the table is built
// once at startup and an overwrite is always a programming error.
type DuplicateEntryError struct {
	Path string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("apigen: duplicate override entry: %s", e.Path)
}

// Overrides maps dotted API paths ("Owner.method.parameterOrOption") to
// type-override descriptors. Populate once, then treat as read-only;
// Lookup needs no locking after that.
type Overrides struct {
	byPath map[string]Mapping
}

// NewOverrides creates an empty registry.
func NewOverrides() *Overrides {
	return &Overrides{byPath: make(map[string]Mapping)}
}

// Register inserts an override. It fails with *DuplicateEntryError when
// path is already present, leaving the first entry untouched.
func (o *Overrides) Register(path, from, to string) error {
	return o.RegisterCustom(path, from, to, nil)
}

// RegisterCustom is Register with an auxiliary type emitter.
func (o *Overrides) RegisterCustom(path, from, to string, custom TypeEmitter) error {
	if _, ok := o.byPath[path]; ok {
		return &DuplicateEntryError{Path: path}
	}
	o.byPath[path] = Mapping{From: from, To: to, Custom: custom}
	return nil
}

// Lookup returns the override for path. Absence is not an error: it
// means the schema's default type mapping applies.
func (o *Overrides) Lookup(path string) (Mapping, bool) {
	m, ok := o.byPath[path]
	return m, ok
}

// Len returns the number of registered overrides.
func (o *Overrides) Len() int { return len(o.byPath) }

// Defaults returns the registry pre-populated with the overrides the
// upstream schema needs. Registration of this static table cannot
// collide, so errors here are panics.
func Defaults() *Overrides {
	o := NewOverrides()
	mustRegister := func(path, from, to string) {
		if err := o.Register(path, from, to); err != nil {
			panic(err)
		}
	}

	// Callback parameters surface as named Go func types.
	mustRegister("BrowserContext.exposeBinding.callback", "function", "BindingCallback")
	mustRegister("BrowserContext.exposeFunction.callback", "function", "FunctionCallback")
	mustRegister("Page.exposeBinding.callback", "function", "BindingCallback")
	mustRegister("Page.exposeFunction.callback", "function", "FunctionCallback")

	// selectOption accepts a union in the schema; the binding narrows
	// it to a string slice.
	const selectOptionUnion = "Array<ElementHandle>|Array<Object>|Array<string>|ElementHandle|Object|null|string"
	mustRegister("Page.selectOption.values", selectOptionUnion, "[]string")
	mustRegister("Frame.selectOption.values", selectOptionUnion, "[]string")
	mustRegister("ElementHandle.selectOption.values", selectOptionUnion, "[]string")

	if err := o.RegisterCustom("Route.resume.options.postData", "Buffer|string", "[]byte", EmitNothing{}); err != nil {
		panic(err)
	}
	return o
}
