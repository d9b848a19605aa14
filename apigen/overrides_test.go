package apigen

import (
	"errors"
	"testing"
)

func TestRegisterDuplicateFailsAndKeepsFirst(t *testing.T) {
	o := NewOverrides()
	if err := o.Register("A.b.c", "string", "Enum"); err != nil {
		t.Fatal(err)
	}

	err := o.Register("A.b.c", "int", "Other")
	var dup *DuplicateEntryError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want *DuplicateEntryError", err)
	}
	if dup.Path != "A.b.c" {
		t.Errorf("path = %q", dup.Path)
	}

	m, ok := o.Lookup("A.b.c")
	if !ok {
		t.Fatal("entry vanished after failed overwrite")
	}
	if m.From != "string" || m.To != "Enum" {
		t.Errorf("first entry altered: %+v", m)
	}
}

func TestLookupAbsentPathIsNotAnError(t *testing.T) {
	o := NewOverrides()
	if _, ok := o.Lookup("Never.registered.path"); ok {
		t.Fatal("lookup of absent path reported present")
	}
}

func TestRegisterCustomIsAlsoStrict(t *testing.T) {
	o := NewOverrides()
	if err := o.RegisterCustom("X.y.z", "Buffer|string", "[]byte", EmitNothing{}); err != nil {
		t.Fatal(err)
	}
	if err := o.RegisterCustom("X.y.z", "Buffer|string", "[]byte", EmitNothing{}); err == nil {
		t.Fatal("custom registration must also reject duplicates")
	}
}

func TestDefaultsTable(t *testing.T) {
	o := Defaults()
	if o.Len() == 0 {
		t.Fatal("defaults table empty")
	}

	m, ok := o.Lookup("Page.selectOption.values")
	if !ok {
		t.Fatal("selectOption override missing")
	}
	if m.To != "[]string" {
		t.Errorf("selectOption maps to %q", m.To)
	}

	m, ok = o.Lookup("Route.resume.options.postData")
	if !ok {
		t.Fatal("route resume override missing")
	}
	if m.Custom == nil {
		t.Error("route resume override should carry a custom emitter")
	}
}
