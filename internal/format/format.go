// Package format tracks per-field text formatting attributes. Attributes are
// keyed by an explicit {field, attribute} pair instead of concatenated string
// keys, so a typo in a field name cannot silently create a new state slot.
package format

import "github.com/scanbill/go-workers/internal/transform"

// Attribute is one toggleable text formatting attribute.
type Attribute int

const (
	Bold Attribute = iota
	Italic
	Underline
)

func (a Attribute) String() string {
	switch a {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Underline:
		return "underline"
	default:
		return "unknown"
	}
}

type key struct {
	Field string
	Attr  Attribute
}

// State holds the active formatting flags for a set of named fields. The
// zero value is not usable; call NewState.
type State struct {
	flags map[key]bool
}

func NewState() *State {
	return &State{flags: make(map[key]bool)}
}

// Set records whether an attribute is active for a field.
func (s *State) Set(field string, attr Attribute, on bool) {
	s.flags[key{Field: field, Attr: attr}] = on
}

// Toggle flips an attribute for a field and returns the new value.
func (s *State) Toggle(field string, attr Attribute) bool {
	k := key{Field: field, Attr: attr}
	s.flags[k] = !s.flags[k]
	return s.flags[k]
}

// Enabled reports whether an attribute is active for a field. Unset pairs
// are off.
func (s *State) Enabled(field string, attr Attribute) bool {
	return s.flags[key{Field: field, Attr: attr}]
}

// FontFamily resolves a field's bold/italic attributes to the overlay font
// family the transform engine draws with.
func (s *State) FontFamily(field string) string {
	return transform.FamilyForStyle(s.Enabled(field, Bold), s.Enabled(field, Italic))
}
