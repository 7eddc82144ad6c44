package steps

import (
	"sort"
	"strings"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

type SortKey string

const (
	SortPrevalence    SortKey = "prevalence"
	SortIncidence     SortKey = "incidence"
	SortAlphabetical  SortKey = "alphabetical"
	SortActionability SortKey = "actionability"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type SortPolicy struct {
	Key   SortKey
	Order SortOrder
}

// ParseSortPolicy validates caller-supplied sort parameters. An empty key means
// prevalence; an empty order means descending, or ascending for alphabetical.
func ParseSortPolicy(key, order string) (SortPolicy, error) {
	p := SortPolicy{Key: SortKey(strings.ToLower(strings.TrimSpace(key)))}
	switch p.Key {
	case "":
		p.Key = SortPrevalence
	case SortPrevalence, SortIncidence, SortAlphabetical, SortActionability:
	default:
		return SortPolicy{}, oncology.Validation("oncology.sort", "unknown sort key "+key)
	}

	switch o := SortOrder(strings.ToLower(strings.TrimSpace(order))); o {
	case "":
		p.Order = SortDesc
		if p.Key == SortAlphabetical {
			p.Order = SortAsc
		}
	case SortAsc, SortDesc:
		p.Order = o
	default:
		return SortPolicy{}, oncology.Validation("oncology.sort", "unknown sort order "+order)
	}
	return p, nil
}

// Rankable is a result row the sort engine can order.
type Rankable interface {
	RankID() string
	RankName() string
	RankValue(key SortKey) float64
}

// SortRows orders rows in place. Numeric keys fall back to name ascending on equal
// values whatever the requested order; alphabetical ties fall back to id.
func SortRows[T Rankable](rows []T, p SortPolicy) {
	desc := p.Order == SortDesc
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if p.Key == SortAlphabetical {
			an, bn := strings.ToLower(a.RankName()), strings.ToLower(b.RankName())
			if an != bn {
				if desc {
					return an > bn
				}
				return an < bn
			}
			return a.RankID() < b.RankID()
		}
		av, bv := a.RankValue(p.Key), b.RankValue(p.Key)
		if av != bv {
			if desc {
				return av > bv
			}
			return av < bv
		}
		return lessByName(a, b)
	})
}

func lessByName(a, b Rankable) bool {
	an, bn := strings.ToLower(a.RankName()), strings.ToLower(b.RankName())
	if an != bn {
		return an < bn
	}
	return a.RankID() < b.RankID()
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
