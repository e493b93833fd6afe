// Package table implements the filter, sort and paginate pipeline that turns
// the immutable record collection plus a query.State into one page of rows.
// Every function is pure: inputs are never mutated and results are fresh
// slices.
package table

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/pkg/models"
)

// resolver extracts the searchable values of a record for one field.
type resolver func(c *models.Character) []string

var resolvers = map[query.Field]resolver{
	query.FieldName:     func(c *models.Character) []string { return []string{c.Name} },
	query.FieldFullName: func(c *models.Character) []string { return []string{c.Biography.FullName} },
	query.FieldPowerstats: func(c *models.Character) []string {
		entries := c.Powerstats.Entries()
		out := make([]string, len(entries))
		for i, s := range entries {
			out[i] = strconv.Itoa(s.Score)
		}
		return out
	},
	query.FieldRace:         func(c *models.Character) []string { return []string{c.Appearance.Race} },
	query.FieldGender:       func(c *models.Character) []string { return []string{c.Appearance.Gender} },
	query.FieldHeight:       func(c *models.Character) []string { return []string{strings.Join(c.Appearance.Height, ", ")} },
	query.FieldWeight:       func(c *models.Character) []string { return []string{strings.Join(c.Appearance.Weight, ", ")} },
	query.FieldPlaceOfBirth: func(c *models.Character) []string { return []string{c.Biography.PlaceOfBirth} },
	query.FieldAlignment:    func(c *models.Character) []string { return []string{c.Biography.Alignment} },
}

// Resolve returns the values of c that field searches against. Unknown
// fields resolve as the record's name.
func Resolve(c *models.Character, field query.Field) []string {
	r, ok := resolvers[field]
	if !ok {
		r = resolvers[query.DefaultField]
	}
	return r(c)
}

// Filter returns the records whose resolved field values satisfy op against
// text, in their original order.
func Filter(records []models.Character, field query.Field, op query.Operator, text string) []models.Character {
	match := Predicate(field, op, text)
	out := make([]models.Character, 0, len(records))
	for i := range records {
		if match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Predicate builds the per-record match function for a search. Unknown
// operators fall back to include. The returned function is not safe for
// concurrent use.
func Predicate(field query.Field, op query.Operator, text string) func(*models.Character) bool {
	if op.Numeric() {
		target, ok := models.LeadingFloat(text)
		less := op == query.OpLessThan
		return func(c *models.Character) bool {
			if !ok {
				return false
			}
			for _, v := range Resolve(c, field) {
				f, parsed := models.LeadingFloat(v)
				if !parsed {
					continue
				}
				if (less && f < target) || (!less && f > target) {
					return true
				}
			}
			return false
		}
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(text)
	anyValue := func(c *models.Character, test func(string) bool) bool {
		for _, v := range Resolve(c, field) {
			if test(lower.String(v)) {
				return true
			}
		}
		return false
	}
	contains := func(v string) bool { return strings.Contains(v, needle) }
	equals := func(v string) bool { return v == needle }

	switch op {
	case query.OpExclude:
		return func(c *models.Character) bool { return !anyValue(c, contains) }
	case query.OpEqual:
		return func(c *models.Character) bool { return anyValue(c, equals) }
	case query.OpNotEqual:
		return func(c *models.Character) bool { return !anyValue(c, equals) }
	default:
		return func(c *models.Character) bool { return anyValue(c, contains) }
	}
}
