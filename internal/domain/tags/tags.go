// Package tags derives normalized tag sets from user survey answers and
// vacancy metadata. Both sides of the matching join go through this package
// so a tag written from a survey compares equal to the same tag written
// from a spreadsheet row.
package tags

import "strings"

type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryDirection  Category = "direction"
	CategoryExperience Category = "experience"
	CategoryWorkType   Category = "work_type"
	CategoryOther      Category = "other"
)

// RawPreferences is the survey/web-form payload shape. Absent fields are
// nil slices and contribute nothing.
type RawPreferences struct {
	Specialization []string `json:"specialization"`
	Technologies   []string `json:"technologies"`
	Experience     []string `json:"experience"`
	WorkFormat     []string `json:"work_format"`
	Location       string   `json:"location,omitempty"`
	SalaryRange    string   `json:"salary_range,omitempty"`
}

// Extract returns the deduplicated union of all array-valued preference
// fields, in first-seen order. It never fails: malformed input degrades to
// an empty set, which the matcher treats as "no matches".
func Extract(p RawPreferences) []string {
	out := make([]string, 0, len(p.Specialization)+len(p.Technologies)+len(p.Experience)+len(p.WorkFormat))
	seen := map[string]struct{}{}

	add := func(values []string) {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	add(p.Specialization)
	add(p.Technologies)
	add(p.Experience)
	add(p.WorkFormat)

	return out
}

// SplitList parses a comma-separated tag column: split, trim, drop empties,
// dedupe keeping first-seen order.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

var categoryKeywords = map[Category][]string{
	CategoryTechnology: {
		"react", "vue", "angular", "node", "python", "java", "php",
		"go", "rust", "typescript", "javascript",
	},
	CategoryDirection: {
		"frontend", "backend", "fullstack", "mobile", "devops", "qa",
		"design", "marketing",
	},
	CategoryExperience: {
		"junior", "middle", "senior", "lead", "опыт", "года", "лет",
	},
	CategoryWorkType: {
		"офис", "удал", "гибрид", "office", "remote", "hybrid",
	},
}

// detection order matters: "Go разработчик, 3 года" should land in
// technology before the experience keywords get a chance.
var categoryOrder = []Category{
	CategoryTechnology,
	CategoryDirection,
	CategoryExperience,
	CategoryWorkType,
}

// DetectCategory classifies a tag by case-insensitive substring match
// against known vocabularies, defaulting to other.
func DetectCategory(name string) Category {
	lower := strings.ToLower(name)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return CategoryOther
}
