// Package search implements the progressive multi-window disclosure
// search: escalating lookback windows over business days, name-alias
// normalization, and a single-date fallback, returning the most recent
// qualifying filing or a structured failure.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aomi-research/edinet-cli/internal/model"
)

// DefaultCategory is the document category searched when none is given:
// the annual securities report.
const DefaultCategory = "有価証券報告書"

// DefaultWindows is the escalating lookback sequence, in days.
var DefaultWindows = []int{7, 30, 90}

// Lister is the external document listing collaborator.
type Lister interface {
	ListDocuments(ctx context.Context, date time.Time) ([]model.Document, error)
}

// Match is a located filing with the probe position that found it.
type Match struct {
	Document model.Document
	Date     time.Time
	Window   int
	Alias    string
	Fallback bool
}

// ExhaustedError is the terminal failure after every window and the
// single-date fallback missed. It enumerates the attempts for diagnostics.
type ExhaustedError struct {
	Company       string
	Category      string
	WindowsTried  []int
	FallbackTried bool
	Probes        int
	ProbeErrors   int
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("search: no %s found for %q (windows tried: %v, fallback: %v)",
		e.Category, e.Company, e.WindowsTried, e.FallbackTried)
	if e.AllProbesFailed() {
		msg += fmt.Sprintf("; all %d probes failed", e.Probes)
	} else if e.ProbeErrors > 0 {
		msg += fmt.Sprintf("; %d of %d probes failed", e.ProbeErrors, e.Probes)
	}
	return msg
}

// AllProbesFailed reports whether every probe errored outright, i.e. the
// search never saw a clean empty listing.
func (e *ExhaustedError) AllProbesFailed() bool {
	return e.Probes > 0 && e.ProbeErrors == e.Probes
}

// Options configures a Strategy.
type Options struct {
	// Windows is the ascending day-offset sequence. Defaults to DefaultWindows.
	Windows []int
	// Concurrency bounds simultaneous listing probes. Defaults to 1.
	Concurrency int
	// Holidays are non-business dates formatted 2006-01-02.
	Holidays []string
	// Now overrides the clock for tests.
	Now func() time.Time
}

// Strategy locates the most relevant disclosure for a company name via
// progressively wider historical windows.
type Strategy struct {
	lister      Lister
	windows     []int
	concurrency int
	holidays    map[string]bool
	now         func() time.Time
}

// New creates a Strategy over the given lister.
func New(lister Lister, opts Options) *Strategy {
	windows := opts.Windows
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	windows = append([]int(nil), windows...)
	sort.Ints(windows)

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	holidays := make(map[string]bool, len(opts.Holidays))
	for _, h := range opts.Holidays {
		holidays[h] = true
	}
	return &Strategy{
		lister:      lister,
		windows:     windows,
		concurrency: concurrency,
		holidays:    holidays,
		now:         now,
	}
}

// Find walks the windows narrowest-first, probing business days most
// recent first; within a day's listing, aliases are tried most specific
// first. The first hit in that logical order wins, regardless of probe
// completion order. If every window misses, a single-date fallback probes
// the most recent business day with the most specific alias, and failing
// that an *ExhaustedError is returned — never a silent empty success.
func (s *Strategy) Find(ctx context.Context, companyName, category string) (*Match, error) {
	if category == "" {
		category = DefaultCategory
	}
	aliases := AliasCandidates(companyName)
	if len(aliases) == 0 {
		return nil, &ExhaustedError{Company: companyName, Category: category}
	}

	maxAge := s.windows[len(s.windows)-1]
	days := businessDays(s.now(), maxAge, s.holidays)

	exhausted := &ExhaustedError{Company: companyName, Category: category}

	prevWindow := 0
	for _, window := range s.windows {
		// Each window covers only the days beyond the previous one; dates
		// are never re-probed across windows.
		var windowDays []probeDate
		for _, d := range days {
			if d.age > prevWindow && d.age <= window {
				windowDays = append(windowDays, d)
			}
		}
		prevWindow = window
		exhausted.WindowsTried = append(exhausted.WindowsTried, window)
		if len(windowDays) == 0 {
			continue
		}

		match, probes, errCount := s.scanWindow(ctx, windowDays, aliases, category)
		exhausted.Probes += probes
		exhausted.ProbeErrors += errCount
		if match != nil {
			match.Window = window
			zap.L().Info("search: match found",
				zap.String("company", companyName),
				zap.String("doc_id", match.Document.DocID),
				zap.String("date", match.Date.Format("2006-01-02")),
				zap.Int("window", window),
				zap.String("alias", match.Alias),
			)
			return match, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		zap.L().Debug("search: window exhausted",
			zap.String("company", companyName),
			zap.Int("window", window),
			zap.Int("days_probed", len(windowDays)),
		)
	}

	// Last resort: one probe of the most recent business day with the most
	// specific alias only.
	if len(days) > 0 {
		exhausted.FallbackTried = true
		exhausted.Probes++
		docs, err := s.lister.ListDocuments(ctx, days[0].date)
		if err != nil {
			exhausted.ProbeErrors++
			zap.L().Warn("search: fallback probe failed",
				zap.String("date", days[0].date.Format("2006-01-02")),
				zap.Error(err),
			)
		} else if m := matchListing(docs, aliases[:1], category); m != nil {
			m.Date = days[0].date
			m.Window = s.windows[len(s.windows)-1]
			m.Fallback = true
			return m, nil
		}
	}

	return nil, exhausted
}

// scanWindow probes the window's days with bounded concurrency. The winner
// is the hit closest to the front of the logical day order, not the first
// probe to return; probes ranked behind a confirmed winner are skipped.
func (s *Strategy) scanWindow(ctx context.Context, days []probeDate, aliases []string, category string) (*Match, int, int) {
	matches := make([]*Match, len(days))
	var errCount atomic.Int64
	var probes atomic.Int64

	// Lowest day index with a confirmed hit so far.
	var winner atomic.Int64
	winner.Store(math.MaxInt64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, day := range days {
		g.Go(func() error {
			// A hit at an earlier rank makes this probe irrelevant.
			if int64(i) > winner.Load() {
				return nil
			}
			if gctx.Err() != nil {
				return nil
			}
			probes.Add(1)
			docs, err := s.lister.ListDocuments(gctx, day.date)
			if err != nil {
				// One probe's transport failure never aborts the search.
				errCount.Add(1)
				zap.L().Warn("search: probe failed",
					zap.String("date", day.date.Format("2006-01-02")),
					zap.Error(err),
				)
				return nil
			}
			m := matchListing(docs, aliases, category)
			if m == nil {
				return nil
			}
			m.Date = day.date
			matches[i] = m
			for {
				cur := winner.Load()
				if int64(i) >= cur || winner.CompareAndSwap(cur, int64(i)) {
					return nil
				}
			}
		})
	}
	_ = g.Wait()

	for _, m := range matches {
		if m != nil {
			return m, int(probes.Load()), int(errCount.Load())
		}
	}
	return nil, int(probes.Load()), int(errCount.Load())
}

// matchListing scans one day's listing alias-by-alias, most specific
// first, returning the first document whose filer name or description
// carries the alias and whose description carries the category.
func matchListing(docs []model.Document, aliases []string, category string) *Match {
	for _, alias := range aliases {
		for _, doc := range docs {
			if !strings.Contains(doc.FilerName, alias) && !strings.Contains(doc.Description, alias) {
				continue
			}
			if category != "" && !strings.Contains(doc.Description, category) {
				continue
			}
			return &Match{Document: doc, Alias: alias}
		}
	}
	return nil
}
