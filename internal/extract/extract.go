// Package extract composes the taxonomy classifier and the field resolver
// into a single extraction entry point, plus keyword search and flat
// export over fact tables.
package extract

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aomi-research/edinet-cli/internal/model"
	"github.com/aomi-research/edinet-cli/internal/registry"
	"github.com/aomi-research/edinet-cli/internal/resolve"
	"github.com/aomi-research/edinet-cli/internal/taxonomy"
)

// ErrEmptyInput indicates a fact table with zero facts. It is reported to
// the caller and not retried.
var ErrEmptyInput = eris.New("extract: empty fact table")

// Extractor runs classification and resolution against fact tables.
type Extractor struct {
	registry *registry.Registry
	resolver *resolve.Resolver
}

// New creates an Extractor over the given registry and resolver.
func New(reg *registry.Registry, res *resolve.Resolver) *Extractor {
	return &Extractor{registry: reg, resolver: res}
}

// Extract classifies the table's issuer type and resolves that profile's
// logical fields. Unresolved individual fields never cause an error; they
// appear as absent entries in the result.
func (e *Extractor) Extract(ctx context.Context, table *model.FactTable) (*model.NormalizedResult, error) {
	if table == nil || len(table.Facts) == 0 {
		return nil, ErrEmptyInput
	}

	identifiers := table.Identifiers()
	issuer := taxonomy.Classify(identifiers)

	profile, err := e.registry.Profile(issuer)
	if err != nil {
		// A classified type without registry rules (e.g. insurance in the
		// built-in tables) resolves with the default profile.
		zap.L().Warn("extract: no rules for issuer type, using general_company",
			zap.String("issuer_type", string(issuer)),
		)
		profile, err = e.registry.Profile(model.IssuerGeneralCompany)
		if err != nil {
			return nil, err
		}
	}

	result := e.resolver.Resolve(ctx, profile, table)
	result.IssuerType = issuer

	zap.L().Debug("extract: resolved fact table",
		zap.String("issuer_type", string(issuer)),
		zap.Int("facts", len(table.Facts)),
		zap.Int("dropped", table.Dropped),
		zap.Int("resolved", len(result.Resolved())),
		zap.Int("fields", len(result.FieldOrder)),
	)
	return result, nil
}

// SearchByTerms returns the facts whose identifier or item name contains
// any of the terms, case-insensitively, in the table's original order.
// Each fact is emitted at most once.
func SearchByTerms(table *model.FactTable, terms []string) []model.Fact {
	if table == nil || len(terms) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			lowered = append(lowered, strings.ToLower(t))
		}
	}

	var out []model.Fact
	for _, f := range table.Facts {
		id := strings.ToLower(f.Identifier)
		name := strings.ToLower(f.Name)
		for _, term := range lowered {
			if strings.Contains(id, term) || strings.Contains(name, term) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
