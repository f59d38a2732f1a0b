package model

// AbsenceReason explains why a logical field did not resolve.
type AbsenceReason string

const (
	// AbsenceNoIdentifier means no candidate identifier matched any fact.
	AbsenceNoIdentifier AbsenceReason = "no_matching_identifier"
	// AbsenceNoContextOrMember means an identifier matched but no
	// context/member priority entry was satisfiable.
	AbsenceNoContextOrMember AbsenceReason = "no_matching_context_or_member"
)

// FieldResolution is the outcome for one logical field: either a resolved
// value with provenance, or an absence marker with a reason. Exactly one of
// the two shapes is populated.
type FieldResolution struct {
	Value            string `json:"value,omitempty"`
	DisplayName      string `json:"display_name,omitempty"`
	SourceIdentifier string `json:"source_identifier,omitempty"`
	SourceContext    string `json:"source_context,omitempty"`
	SourceMember     string `json:"source_member,omitempty"`

	Absent bool          `json:"absent,omitempty"`
	Reason AbsenceReason `json:"reason,omitempty"`
}

// NormalizedResult maps logical field names to their resolutions. It is
// produced fresh per extraction and never mutated after return.
type NormalizedResult struct {
	IssuerType IssuerType                 `json:"issuer_type"`
	Fields     map[string]FieldResolution `json:"fields"`
	// FieldOrder preserves the registry declaration order for stable export.
	FieldOrder []string `json:"field_order"`
}

// Resolved returns the resolutions that carry a value, in field order.
func (r *NormalizedResult) Resolved() []string {
	var names []string
	for _, name := range r.FieldOrder {
		if fr, ok := r.Fields[name]; ok && !fr.Absent {
			names = append(names, name)
		}
	}
	return names
}
