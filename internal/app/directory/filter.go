package directory

import (
	"net/url"
	"strings"

	"github.com/dalemusser/ecomap/internal/domain/models"
)

// AllSentinel is the select-box value meaning "no constraint".
const AllSentinel = "all"

// Criteria is the visitor's current filter. Empty fields do not constrain.
type Criteria struct {
	Query      string
	Categories []string
	Scopes     []models.Scope
}

// IsEmpty reports whether c matches every record.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Query) == "" && len(c.Categories) == 0 && len(c.Scopes) == 0
}

// Values encodes c as query parameters (q, category, scope).
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(c.Query); q != "" {
		v.Set("q", q)
	}
	for _, cat := range c.Categories {
		v.Add("category", cat)
	}
	for _, sc := range c.Scopes {
		v.Add("scope", string(sc))
	}
	return v
}

// HasCategory reports whether cat is selected.
func (c Criteria) HasCategory(cat string) bool {
	for _, x := range c.Categories {
		if x == cat {
			return true
		}
	}
	return false
}

// HasScope reports whether sc is selected.
func (c Criteria) HasScope(sc models.Scope) bool {
	for _, x := range c.Scopes {
		if x == sc {
			return true
		}
	}
	return false
}

// CriteriaFromValues builds normalized criteria from request parameters.
func CriteriaFromValues(v url.Values) Criteria {
	c := Criteria{
		Query:      strings.TrimSpace(v.Get("q")),
		Categories: NormalizeSelection(v["category"]),
	}
	for _, s := range NormalizeSelection(v["scope"]) {
		sc, err := models.ParseScope(s)
		if err != nil {
			// Unknown scopes stay in the set and simply match nothing.
			sc = models.Scope(s)
		}
		c.Scopes = appendUniqueScope(c.Scopes, sc)
	}
	return c
}

// NormalizeSelection turns the shapes a multi-select can submit (repeated
// values, comma-separated lists, the "all" sentinel, blanks) into a
// duplicate-free list in first-seen order. "all" anywhere yields nil.
func NormalizeSelection(values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.EqualFold(part, AllSentinel) {
				return nil
			}
			if !seen[part] {
				seen[part] = true
				out = append(out, part)
			}
		}
	}
	return out
}

func appendUniqueScope(list []models.Scope, sc models.Scope) []models.Scope {
	for _, x := range list {
		if x == sc {
			return list
		}
	}
	return append(list, sc)
}

// Filter returns the records matching c, in input order. The text query
// is trimmed and matched case-insensitively as a substring of the name,
// description, or location. Category and scope match by set membership.
// Dimensions combine with AND; values within a dimension with OR.
func Filter(records []models.Organization, c Criteria) []models.Organization {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	cats := make(map[string]bool, len(c.Categories))
	for _, x := range c.Categories {
		cats[x] = true
	}
	scopes := make(map[models.Scope]bool, len(c.Scopes))
	for _, x := range c.Scopes {
		scopes[x] = true
	}

	out := make([]models.Organization, 0, len(records))
	for _, o := range records {
		if q != "" &&
			!strings.Contains(strings.ToLower(o.Organization), q) &&
			!strings.Contains(strings.ToLower(o.Description), q) &&
			!strings.Contains(strings.ToLower(o.Location), q) {
			continue
		}
		if len(cats) > 0 && !cats[o.Category] {
			continue
		}
		if len(scopes) > 0 && !scopes[o.Scope] {
			continue
		}
		out = append(out, o)
	}
	return out
}
