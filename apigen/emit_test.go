package apigen

import (
	"strings"
	"testing"
)

const testSchema = `{
  "interfaces": [
    {
      "name": "Tab",
      "comment": "Tab is a handle to one browser tab.",
      "members": [
        {
          "kind": "method",
          "name": "selectOption",
          "type": "Array<string>",
          "args": [
            {"name": "selector", "type": "string", "required": true},
            {"name": "values", "type": "Array<ElementHandle>|Array<Object>|Array<string>|ElementHandle|Object|null|string", "required": true},
            {"name": "options", "fields": [
              {"name": "timeout", "type": "number"},
              {"name": "noWaitAfter", "type": "boolean"}
            ]}
          ]
        },
        {"kind": "property", "name": "url", "type": "string"},
        {"kind": "event", "name": "close", "type": "string"}
      ]
    }
  ]
}`

func testGenerate(t *testing.T, ov *Overrides) string {
	t.Helper()
	s, err := ParseSchema([]byte(testSchema))
	if err != nil {
		t.Fatal(err)
	}
	g := &Generator{Package: "bindings", Overrides: ov}
	out, err := g.Generate(s)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestGenerateAppliesOverride(t *testing.T) {
	ov := NewOverrides()
	if err := o(ov, "Tab.selectOption.values", "[]string"); err != nil {
		t.Fatal(err)
	}
	src := testGenerate(t, ov)

	if !strings.Contains(src, "values []string") {
		t.Errorf("override not applied:\n%s", src)
	}
	if strings.Contains(src, "values interface{}") {
		t.Error("union fell back to interface{} despite override")
	}
}

func TestGenerateDefaultMappingWithoutOverride(t *testing.T) {
	src := testGenerate(t, NewOverrides())

	// The union has no override, so it must collapse to interface{}.
	if !strings.Contains(src, "values interface{}") {
		t.Errorf("union without override not collapsed:\n%s", src)
	}
}

func TestGenerateOptionBagAndWithers(t *testing.T) {
	src := testGenerate(t, NewOverrides())

	if !strings.Contains(src, "type TabSelectOptionOptions struct {") {
		t.Errorf("option bag missing:\n%s", src)
	}
	if !strings.Contains(src, "Timeout *float64") {
		t.Error("timeout field missing or not optional")
	}
	if !strings.Contains(src, "func (o *TabSelectOptionOptions) WithTimeout(v float64) *TabSelectOptionOptions {") {
		t.Error("wither missing")
	}
	// Fields are sorted: NoWaitAfter before Timeout.
	if strings.Index(src, "NoWaitAfter *bool") > strings.Index(src, "Timeout *float64") {
		t.Error("option fields not sorted")
	}
}

func TestGenerateEventPairAndProperty(t *testing.T) {
	src := testGenerate(t, NewOverrides())

	if !strings.Contains(src, "OnClose(handler func(string))") ||
		!strings.Contains(src, "OffClose(handler func(string))") {
		t.Errorf("event on/off pair missing:\n%s", src)
	}
	if !strings.Contains(src, "URL() string") && !strings.Contains(src, "Url() string") {
		t.Errorf("property accessor missing:\n%s", src)
	}
}

func o(ov *Overrides, path, to string) error {
	return ov.Register(path, "union", to)
}
