package model

import "encoding/json"

// IdentifierKind tells how many values an external identifier resolved to
type IdentifierKind int

const (
	IdentifierNone IdentifierKind = iota
	IdentifierOne
	IdentifierMany
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierOne:
		return "one"
	case IdentifierMany:
		return "many"
	default:
		return "none"
	}
}

// Identifier is an external identifier or profile URL that may be absent,
// single-valued or multi-valued. The zero value is None.
type Identifier struct {
	values []string
}

// NewIdentifier builds an Identifier from resolved values
func NewIdentifier(values []string) Identifier {
	if len(values) == 0 {
		return Identifier{}
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return Identifier{values: cp}
}

// Kind returns the cardinality of the identifier
func (i Identifier) Kind() IdentifierKind {
	switch len(i.values) {
	case 0:
		return IdentifierNone
	case 1:
		return IdentifierOne
	default:
		return IdentifierMany
	}
}

// IsNone reports whether no value was resolved
func (i Identifier) IsNone() bool {
	return len(i.values) == 0
}

// One returns the scalar value when exactly one value was resolved
func (i Identifier) One() (string, bool) {
	if len(i.values) != 1 {
		return "", false
	}
	return i.values[0], true
}

// Values returns all resolved values (empty for None)
func (i Identifier) Values() []string {
	cp := make([]string, len(i.values))
	copy(cp, i.values)
	return cp
}

// MarshalJSON encodes None as null, One as a string and Many as an array
func (i Identifier) MarshalJSON() ([]byte, error) {
	switch i.Kind() {
	case IdentifierNone:
		return []byte("null"), nil
	case IdentifierOne:
		return json.Marshal(i.values[0])
	default:
		return json.Marshal(i.values)
	}
}

// UnmarshalJSON accepts null, a string or an array of strings
func (i *Identifier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = Identifier{}
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*i = NewIdentifier([]string{single})
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*i = NewIdentifier(many)
	return nil
}
