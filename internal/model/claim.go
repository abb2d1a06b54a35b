package model

// Entity is a linked-data item decoded into the fields the resolver needs.
// Labels, descriptions and aliases are already narrowed to the target locale.
type Entity struct {
	ID          string             `json:"id"`
	Label       string             `json:"label,omitempty"`
	Description string             `json:"description,omitempty"`
	Aliases     []string           `json:"aliases,omitempty"`
	Claims      map[string][]Claim `json:"claims,omitempty"` // Keyed by property identifier (e.g. "P569")
	Sitelinks   map[string]string  `json:"sitelinks,omitempty"`
}

// ClaimsFor returns the claims for a property in source order
func (e *Entity) ClaimsFor(propertyID string) []Claim {
	if e == nil || e.Claims == nil {
		return nil
	}
	return e.Claims[propertyID]
}

// Claim is one statement about a property
type Claim struct {
	Property string      `json:"property"`
	SnakType string      `json:"snak_type,omitempty"` // value, somevalue, novalue
	Rank     string      `json:"rank,omitempty"`
	Value    *ClaimValue `json:"value,omitempty"` // nil for "unknown"/"no value" statements and unsupported types
}

// HasValue reports whether the claim carries a concrete value
func (c Claim) HasValue() bool {
	return c.Value != nil && (c.SnakType == "" || c.SnakType == SnakValue)
}

// SnakValue is the snak type of statements that carry a concrete value
const SnakValue = "value"

// ValueKind classifies a claim value
type ValueKind string

const (
	ValueEntity ValueKind = "entity" // Reference to another item, needs a label lookup
	ValueTime   ValueKind = "time"   // ISO-8601-like timestamp with precision
	ValueString ValueKind = "string" // Plain string (identifiers, handles, URLs)
	ValueText   ValueKind = "text"   // Language-tagged text
)

// ClaimValue holds exactly one of the variants selected by Kind
type ClaimValue struct {
	Kind ValueKind `json:"kind"`

	EntityID  string `json:"entity_id,omitempty"` // ValueEntity
	Time      string `json:"time,omitempty"`      // ValueTime, e.g. "+1879-03-14T00:00:00Z"
	Precision int    `json:"precision,omitempty"` // ValueTime
	Text      string `json:"text,omitempty"`      // ValueString, ValueText
	Language  string `json:"language,omitempty"`  // ValueText
}

// Precision codes supported by date formatting
const (
	PrecisionYear  = 9
	PrecisionMonth = 10
	PrecisionDay   = 11
)

// Well-known identifiers
const (
	PropertyInstanceOf = "P31"
	ClassHuman         = "Q5"
)
