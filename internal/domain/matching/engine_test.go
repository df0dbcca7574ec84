package matching

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func pairsFor(id uuid.UUID, tags ...string) []TagPair {
	out := make([]TagPair, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagPair{VacancyID: id, TagName: tag})
	}
	return out
}

func TestRank_MinOverlapThreshold(t *testing.T) {
	weak := uuid.New()
	strong := uuid.New()

	pairs := append(
		pairsFor(weak, "React"),
		pairsFor(strong, "React", "Senior")...,
	)

	got := Rank(pairs, nil, Options{})
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].VacancyID != strong {
		t.Fatalf("expected vacancy %s, got %s", strong, got[0].VacancyID)
	}
	if got[0].MatchCount != 2 {
		t.Fatalf("expected match count 2, got %d", got[0].MatchCount)
	}
}

func TestRank_DuplicatePairsCountOnce(t *testing.T) {
	id := uuid.New()
	pairs := []TagPair{
		{VacancyID: id, TagName: "React"},
		{VacancyID: id, TagName: "React"},
		{VacancyID: id, TagName: "React"},
	}

	got := Rank(pairs, nil, Options{MinOverlap: 1, Limit: 5})
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].MatchCount != 1 {
		t.Fatalf("duplicate rows must count once, got %d", got[0].MatchCount)
	}
}

func TestRank_SeenVacanciesExcluded(t *testing.T) {
	seenID := uuid.New()
	freshID := uuid.New()

	pairs := append(
		pairsFor(seenID, "React", "Senior"),
		pairsFor(freshID, "React", "Senior")...,
	)
	seen := map[uuid.UUID]struct{}{seenID: {}}

	got := Rank(pairs, seen, Options{})
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].VacancyID != freshID {
		t.Fatalf("expected only the unseen vacancy, got %s", got[0].VacancyID)
	}
}

func TestRank_TopNAndOrdering(t *testing.T) {
	var pairs []TagPair
	for i := 0; i < 7; i++ {
		id := uuid.New()
		tags := make([]string, 0, i+2)
		for j := 0; j < i+2; j++ {
			tags = append(tags, fmt.Sprintf("tag-%d", j))
		}
		pairs = append(pairs, pairsFor(id, tags...)...)
	}

	got := Rank(pairs, nil, Options{})
	if len(got) != DefaultLimit {
		t.Fatalf("expected %d candidates, got %d", DefaultLimit, len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].MatchCount > got[i-1].MatchCount {
			t.Fatalf("candidates not sorted by match count: %d before %d",
				got[i-1].MatchCount, got[i].MatchCount)
		}
	}
	if got[0].MatchCount != 8 {
		t.Fatalf("expected strongest candidate with 8 shared tags, got %d", got[0].MatchCount)
	}
}

func TestRank_TieOrderDeterministic(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	pairs := append(
		pairsFor(a, "React", "Senior"),
		pairsFor(b, "React", "Senior")...,
	)

	first := Rank(pairs, nil, Options{})

	// Same pairs fed in reverse order must rank identically.
	reversed := make([]TagPair, 0, len(pairs))
	for i := len(pairs) - 1; i >= 0; i-- {
		reversed = append(reversed, pairs[i])
	}
	second := Rank(reversed, nil, Options{})

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 candidates both times, got %d and %d", len(first), len(second))
	}
	if first[0].VacancyID != second[0].VacancyID || first[1].VacancyID != second[1].VacancyID {
		t.Fatalf("tie ordering not deterministic: %v vs %v", first, second)
	}
}

func TestRank_EmptyInput(t *testing.T) {
	if got := Rank(nil, nil, Options{}); len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
}
