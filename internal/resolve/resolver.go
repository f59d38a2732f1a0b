// Package resolve turns a fact table into normalized field values by
// walking each field's priority rules in strict lexicographic order:
// identifier, then context, then member.
package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aomi-research/edinet-cli/internal/model"
	"github.com/aomi-research/edinet-cli/internal/registry"
)

// Resolver resolves logical fields against fact tables. Fields are
// independent, so they run on a bounded worker pool; the walk within a
// single field is strictly sequential.
type Resolver struct {
	workers int
}

// New creates a Resolver with the given worker limit. A limit below 1
// means one worker per field.
func New(workers int) *Resolver {
	return &Resolver{workers: workers}
}

// Resolve produces a fresh NormalizedResult for the profile. Unresolved
// fields are recorded as absent with a reason; one field's outcome never
// affects another.
func (r *Resolver) Resolve(ctx context.Context, profile *registry.Profile, table *model.FactTable) *model.NormalizedResult {
	result := &model.NormalizedResult{
		IssuerType: profile.IssuerType,
		Fields:     make(map[string]model.FieldResolution, len(profile.Fields)),
		FieldOrder: profile.FieldNames(),
	}

	limit := r.workers
	if limit < 1 || limit > len(profile.Fields) {
		limit = len(profile.Fields)
	}

	// Each goroutine writes only its own slot; the final copy into the
	// result map is the single synchronization point.
	slots := make([]model.FieldResolution, len(profile.Fields))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, field := range profile.Fields {
		g.Go(func() error {
			if ctx.Err() != nil {
				slots[i] = absent(field.Rule, model.AbsenceNoIdentifier)
				return nil
			}
			slots[i] = ResolveField(field.Rule, table)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	for i, field := range profile.Fields {
		result.Fields[field.Name] = slots[i]
	}
	return result
}

// ResolveField resolves a single rule against the table. The search is
// lexicographic, not best-value-wins: the first candidate identifier with
// any matching fact fixes the identifier, the first context label with a
// match under that identifier fixes the context, and the first satisfiable
// member label selects the fact. A candidate whose context or member walk
// fails yields to the next candidate identifier.
func ResolveField(rule registry.Rule, table *model.FactTable) model.FieldResolution {
	sawIdentifier := false

	for _, id := range rule.CandidateIdentifiers {
		byID := filterByIdentifier(table.Facts, id)
		if len(byID) == 0 {
			continue
		}
		sawIdentifier = true

		byContext := firstContextMatch(byID, rule.ContextPriority)
		if len(byContext) == 0 {
			continue
		}

		if fact, ok := firstMemberMatch(byContext, rule.MemberPriority); ok {
			return model.FieldResolution{
				Value:            fact.Value,
				DisplayName:      rule.DisplayName,
				SourceIdentifier: fact.Identifier,
				SourceContext:    fact.Context,
				SourceMember:     fact.Member,
			}
		}
	}

	if sawIdentifier {
		return absent(rule, model.AbsenceNoContextOrMember)
	}
	return absent(rule, model.AbsenceNoIdentifier)
}

func absent(rule registry.Rule, reason model.AbsenceReason) model.FieldResolution {
	return model.FieldResolution{
		DisplayName: rule.DisplayName,
		Absent:      true,
		Reason:      reason,
	}
}

func filterByIdentifier(facts []model.Fact, id string) []model.Fact {
	var out []model.Fact
	for _, f := range facts {
		if f.Identifier == id {
			out = append(out, f)
		}
	}
	return out
}

// firstContextMatch narrows to the highest-priority context label with at
// least one fact. Lower-priority contexts are never considered once a
// higher one matches; a context label absent from the priority list never
// matches at all.
func firstContextMatch(facts []model.Fact, priority []string) []model.Fact {
	for _, ctxLabel := range priority {
		var out []model.Fact
		for _, f := range facts {
			if f.Context == ctxLabel {
				out = append(out, f)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// firstMemberMatch selects the first fact satisfying the highest-priority
// member label. The unqualified sentinel matches facts with no member;
// without it, memberless facts are not selectable.
func firstMemberMatch(facts []model.Fact, priority []string) (model.Fact, bool) {
	for _, memberLabel := range priority {
		for _, f := range facts {
			if f.Member == memberLabel || (memberLabel == registry.MemberUnqualified && f.Member == "") {
				return f, true
			}
		}
	}
	return model.Fact{}, false
}
