// Package matching ranks vacancies against a user's tag set. The engine is
// pure: storage access, seen-set loading, and notification side effects stay
// with the callers.
package matching

import (
	"sort"

	"github.com/google/uuid"
)

// TagPair is one (vacancy, tag) row from the vacancy tag store, already
// narrowed to tags the user has.
type TagPair struct {
	VacancyID uuid.UUID
	TagName   string
}

// Candidate is a vacancy that cleared the overlap threshold.
type Candidate struct {
	VacancyID   uuid.UUID
	MatchCount  int
	MatchedTags []string
}

type Options struct {
	// MinOverlap is the minimum number of shared tags. A single incidental
	// overlap (e.g. a shared experience level) is noise, so the default is 2.
	MinOverlap int
	// Limit caps the number of candidates returned.
	Limit int
}

const (
	DefaultMinOverlap = 2
	DefaultLimit      = 5
)

func (o Options) withDefaults() Options {
	if o.MinOverlap < 1 {
		o.MinOverlap = DefaultMinOverlap
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	return o
}

// Rank groups pairs by vacancy, counts distinct shared tags, drops vacancies
// below MinOverlap or already present in seen, and returns the top candidates
// ordered by match count descending. Duplicate (vacancy, tag) rows are
// counted once; ties break on vacancy ID so the ordering is deterministic.
func Rank(pairs []TagPair, seen map[uuid.UUID]struct{}, opts Options) []Candidate {
	opts = opts.withDefaults()

	type group struct {
		tags    []string
		tagSeen map[string]struct{}
	}

	groups := map[uuid.UUID]*group{}
	order := make([]uuid.UUID, 0)

	for _, p := range pairs {
		if p.VacancyID == uuid.Nil || p.TagName == "" {
			continue
		}
		if _, skip := seen[p.VacancyID]; skip {
			continue
		}
		g, ok := groups[p.VacancyID]
		if !ok {
			g = &group{tagSeen: map[string]struct{}{}}
			groups[p.VacancyID] = g
			order = append(order, p.VacancyID)
		}
		if _, dup := g.tagSeen[p.TagName]; dup {
			continue
		}
		g.tagSeen[p.TagName] = struct{}{}
		g.tags = append(g.tags, p.TagName)
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		g := groups[id]
		if len(g.tags) < opts.MinOverlap {
			continue
		}
		out = append(out, Candidate{
			VacancyID:   id,
			MatchCount:  len(g.tags),
			MatchedTags: g.tags,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchCount != out[j].MatchCount {
			return out[i].MatchCount > out[j].MatchCount
		}
		return out[i].VacancyID.String() < out[j].VacancyID.String()
	})

	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
