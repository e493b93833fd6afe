package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/pkg/models"
)

// Key is the sort value extracted from a record for one column.
type Key struct {
	Num     float64
	Str     string
	Numeric bool
	Present bool
}

func stringKey(s string) Key {
	return Key{Str: s, Present: s != ""}
}

// firstNumber keys on the leading number of the first entry of a
// value-with-unit sequence. Zero counts as missing, matching the data
// source's use of "0 cm" for unknown sizes.
func firstNumber(values []string) Key {
	if len(values) == 0 {
		return Key{}
	}
	f, ok := models.LeadingFloat(values[0])
	if !ok || f == 0 {
		return Key{}
	}
	return Key{Num: f, Numeric: true, Present: true}
}

var extractors = map[query.Column]func(c *models.Character) Key{
	query.ColumnName:         func(c *models.Character) Key { return stringKey(c.Name) },
	query.ColumnFullName:     func(c *models.Character) Key { return stringKey(c.Biography.FullName) },
	query.ColumnRace:         func(c *models.Character) Key { return stringKey(c.Appearance.Race) },
	query.ColumnGender:       func(c *models.Character) Key { return stringKey(c.Appearance.Gender) },
	query.ColumnHeight:       func(c *models.Character) Key { return firstNumber(c.Appearance.Height) },
	query.ColumnWeight:       func(c *models.Character) Key { return firstNumber(c.Appearance.Weight) },
	query.ColumnPlaceOfBirth: func(c *models.Character) Key { return stringKey(c.Biography.PlaceOfBirth) },
	query.ColumnAlignment:    func(c *models.Character) Key { return stringKey(c.Biography.Alignment) },
}

// Extract returns the sort key of c for col. Media-only and multi-value
// columns (icon, powerstats) and unknown columns have no key.
func Extract(c *models.Character, col query.Column) Key {
	fn, ok := extractors[col]
	if !ok {
		return Key{}
	}
	return fn(c)
}

// Sortable reports whether col has a sort key extractor.
func Sortable(col query.Column) bool {
	_, ok := extractors[col]
	return ok
}

// Compare orders two present keys ascending: numerically when both are
// numeric, otherwise as case-sensitive strings.
func Compare(a, b Key) int {
	if a.Numeric && b.Numeric {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.text(), b.text())
}

func (k Key) text() string {
	if k.Numeric {
		return strconv.FormatFloat(k.Num, 'f', -1, 64)
	}
	return k.Str
}

// Sort returns a copy of records ordered by col in the given direction.
// Records without a key for col always follow records that have one,
// whichever the direction. Ties keep their input order. With
// query.ColumnNone the copy is returned unchanged.
func Sort(records []models.Character, col query.Column, order query.Order) []models.Character {
	out := make([]models.Character, len(records))
	copy(out, records)
	if col == query.ColumnNone || len(out) < 2 {
		return out
	}

	keys := make([]Key, len(out))
	for i := range out {
		keys[i] = Extract(&out[i], col)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	desc := order == query.Desc
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if a.Present != b.Present {
			return a.Present
		}
		if !a.Present {
			return false
		}
		cmp := Compare(a, b)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	sorted := make([]models.Character, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}
