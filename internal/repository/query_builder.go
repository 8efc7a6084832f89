package repository

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductFilter holds the optional predicates of a product listing.
// A nil field contributes nothing to the query.
type ProductFilter struct {
	Category *string          // exact category name
	MinPrice *decimal.Decimal // inclusive lower bound
	MaxPrice *decimal.Decimal // inclusive upper bound
	Search   *string          // case-insensitive substring of the product name
	InStock  *bool            // true: stock > 0, false: stock <= 0
}

// Count returns the number of predicates the filter carries.
func (f ProductFilter) Count() int {
	n := 0
	if f.Category != nil {
		n++
	}
	if f.MinPrice != nil {
		n++
	}
	if f.MaxPrice != nil {
		n++
	}
	if f.Search != nil {
		n++
	}
	if f.InStock != nil {
		n++
	}
	return n
}

// buildWhere renders the filter into a WHERE fragment plus the ordered
// argument bag. Placeholder numbering starts at startIndex. Values only
// ever travel through the args slice; the fragment contains placeholders
// and fixed column expressions, never user input.
func (f ProductFilter) buildWhere(startIndex int) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	argIndex := startIndex

	if f.Category != nil {
		clauses = append(clauses, fmt.Sprintf("c.name = $%d", argIndex))
		args = append(args, *f.Category)
		argIndex++
	}

	if f.MinPrice != nil {
		clauses = append(clauses, fmt.Sprintf("p.price >= $%d", argIndex))
		args = append(args, *f.MinPrice)
		argIndex++
	}

	if f.MaxPrice != nil {
		clauses = append(clauses, fmt.Sprintf("p.price <= $%d", argIndex))
		args = append(args, *f.MaxPrice)
		argIndex++
	}

	if f.Search != nil {
		clauses = append(clauses, fmt.Sprintf("p.name ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLikePattern(*f.Search)+"%")
		argIndex++
	}

	// The stock predicate binds no value: each branch is a fixed
	// expression, so the boolean can never reshape the query.
	if f.InStock != nil {
		if *f.InStock {
			clauses = append(clauses, "p.stock > 0")
		} else {
			clauses = append(clauses, "p.stock <= 0")
		}
	}

	if len(clauses) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLikePattern neutralizes LIKE metacharacters in a user-supplied
// search term so it matches literally. The wildcards around the term are
// appended by the caller, outside the escaped value.
func escapeLikePattern(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	).Replace(s)
}

// paginate converts a 1-based page into LIMIT/OFFSET values.
func paginate(page, pageSize int) (limit, offset int) {
	return pageSize, (page - 1) * pageSize
}
