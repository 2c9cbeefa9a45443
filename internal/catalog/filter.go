package catalog

import "strings"

type SortOrder string

const (
	SortName      SortOrder = "name"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
)

// Valid reports whether s is a known order. The empty order keeps catalog
// (insertion) order.
func (s SortOrder) Valid() bool {
	switch s {
	case "", SortName, SortPriceLow, SortPriceHigh, SortRating:
		return true
	}
	return false
}

func (s SortOrder) orderBy() string {
	switch s {
	case SortPriceLow:
		return "price ASC, name COLLATE NOCASE ASC"
	case SortPriceHigh:
		return "price DESC, name COLLATE NOCASE ASC"
	case SortRating:
		return "rating DESC, name COLLATE NOCASE ASC"
	case SortName:
		return "name COLLATE NOCASE ASC"
	default:
		return "rowid ASC"
	}
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Category  string
	Search    string
	MinPrice  int64
	MaxPrice  int64
	MinRating float64
	Sort      SortOrder
}

func (f Filter) where() ([]string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Category != "" && f.Category != "all" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses = append(clauses, `(lower(name) LIKE ? ESCAPE '\'
			OR lower(description) LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM json_each(products.tags) WHERE lower(json_each.value) LIKE ? ESCAPE '\'))`)
		args = append(args, like, like, like)
	}
	if f.MinPrice > 0 {
		clauses = append(clauses, "price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		clauses = append(clauses, "price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.MinRating > 0 {
		clauses = append(clauses, "rating >= ?")
		args = append(args, f.MinRating)
	}
	return clauses, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
