// Package model defines the core data types shared across the extraction
// pipeline: XBRL facts, issuer types, normalized results, and documents.
package model

// Fact is one observed value in a disclosure. Facts are immutable once
// decoded; the same identifier may appear under multiple contexts/members.
type Fact struct {
	// Identifier is the namespaced element ID, e.g. "jpcrp_cor:NetSales".
	Identifier string `json:"identifier"`
	// Context is the period/instant qualifier, e.g. "CurrentYearInstant".
	Context string `json:"context"`
	// RelativeYear is the human-readable fiscal-year label from the source
	// CSV (当期, 前期末, ...). Informational only.
	RelativeYear string `json:"relative_year,omitempty"`
	// Member is the optional dimensional qualifier, e.g. "ConsolidatedMember".
	// Empty when the fact carries no dimension.
	Member string `json:"member,omitempty"`
	// Name is the descriptive item label (項目名).
	Name string `json:"name,omitempty"`
	// Value is the reported value, kept as text exactly as disclosed.
	Value string `json:"value"`
	// Unit is the optional unit of measure.
	Unit string `json:"unit,omitempty"`
}

// FactTable is an ordered sequence of facts decoded from one disclosure.
type FactTable struct {
	Facts []Fact `json:"facts"`
	// Dropped counts source rows discarded for missing identifier or value.
	Dropped int `json:"dropped"`
}

// Identifiers returns the set of distinct identifiers in the table.
func (t *FactTable) Identifiers() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Facts))
	for _, f := range t.Facts {
		set[f.Identifier] = struct{}{}
	}
	return set
}

// IssuerType categorizes a reporting entity by its disclosure vocabulary.
type IssuerType string

const (
	IssuerGeneralCompany  IssuerType = "general_company"
	IssuerBank            IssuerType = "bank"
	IssuerInsurance       IssuerType = "insurance"
	IssuerInvestmentTrust IssuerType = "investment_trust"
)
