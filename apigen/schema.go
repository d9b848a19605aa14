package apigen

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Schema is the parsed upstream API description: a set of interfaces,
// each with members (methods, properties, events) whose parameters and
// option fields carry schema type expressions.
type Schema struct {
	Interfaces []Interface `json:"interfaces"`
}

// Interface is one API owner, e.g. "Page".
type Interface struct {
	Name    string   `json:"name"`
	Comment string   `json:"comment,omitempty"`
	Members []Member `json:"members"`
}

// MemberKind distinguishes methods, properties and events.
type MemberKind string

const (
	KindMethod   MemberKind = "method"
	KindProperty MemberKind = "property"
	KindEvent    MemberKind = "event"
)

// Member is one method, property or event of an interface.
type Member struct {
	Kind    MemberKind `json:"kind"`
	Name    string     `json:"name"`
	Comment string     `json:"comment,omitempty"`
	// Type is the return (or property/event payload) type expression.
	Type string `json:"type,omitempty"`
	Args []Arg  `json:"args,omitempty"`
}

// Arg is one parameter of a method. Option bags appear as a trailing
// arg named "options" whose Fields list the optional members.
type Arg struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required"`
	Comment  string `json:"comment,omitempty"`
	Fields   []Arg  `json:"fields,omitempty"`
}

// LoadSchema reads and parses a schema JSON file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("apigen: read schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema parses schema JSON. Interfaces and members keep their
// file order; option fields are sorted by name so generated output is
// stable regardless of upstream churn.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("apigen: parse schema: %w", err)
	}
	for i := range s.Interfaces {
		for j := range s.Interfaces[i].Members {
			for k := range s.Interfaces[i].Members[j].Args {
				fields := s.Interfaces[i].Members[j].Args[k].Fields
				sort.Slice(fields, func(a, b int) bool { return fields[a].Name < fields[b].Name })
			}
		}
	}
	return &s, nil
}
