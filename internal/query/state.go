// Package query models the table's view state: search criteria, sort and
// pagination. A State is a plain value that serializes to and from a URL
// query string so any view can be shared or restored by link.
package query

import "strconv"

// Field selects which record attribute the search text is matched against.
type Field string

const (
	FieldName         Field = "name"
	FieldFullName     Field = "fullname"
	FieldPowerstats   Field = "powerstats"
	FieldRace         Field = "race"
	FieldGender       Field = "gender"
	FieldHeight       Field = "height"
	FieldWeight       Field = "weight"
	FieldPlaceOfBirth Field = "placeofbirth"
	FieldAlignment    Field = "alignment"
)

// Fields lists every search field in selector order.
var Fields = []Field{
	FieldName, FieldFullName, FieldPowerstats, FieldRace, FieldGender,
	FieldHeight, FieldWeight, FieldPlaceOfBirth, FieldAlignment,
}

// Valid reports whether f is a known search field.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Operator is the comparison applied between a resolved value and the search text.
type Operator string

const (
	OpInclude     Operator = "include"
	OpExclude     Operator = "exclude"
	OpEqual       Operator = "equal"
	OpNotEqual    Operator = "notEqual"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
)

// Operators lists every search operator in selector order.
var Operators = []Operator{OpInclude, OpExclude, OpEqual, OpNotEqual, OpGreaterThan, OpLessThan}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	for _, known := range Operators {
		if o == known {
			return true
		}
	}
	return false
}

// Numeric reports whether o compares values as numbers.
func (o Operator) Numeric() bool {
	return o == OpGreaterThan || o == OpLessThan
}

// Column identifies a table column that can be sorted on. The zero value
// means the view is unsorted.
type Column string

const (
	ColumnNone         Column = ""
	ColumnIcon         Column = "icon"
	ColumnName         Column = "name"
	ColumnFullName     Column = "fullname"
	ColumnPowerstats   Column = "powerstats"
	ColumnRace         Column = "race"
	ColumnGender       Column = "gender"
	ColumnHeight       Column = "height"
	ColumnWeight       Column = "weight"
	ColumnPlaceOfBirth Column = "placeofbirth"
	ColumnAlignment    Column = "alignment"
)

// Columns lists every table column in display order.
var Columns = []Column{
	ColumnIcon, ColumnName, ColumnFullName, ColumnPowerstats, ColumnRace,
	ColumnGender, ColumnHeight, ColumnWeight, ColumnPlaceOfBirth, ColumnAlignment,
}

// Valid reports whether c is a known column or ColumnNone.
func (c Column) Valid() bool {
	if c == ColumnNone {
		return true
	}
	for _, known := range Columns {
		if c == known {
			return true
		}
	}
	return false
}

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Valid reports whether o is asc or desc.
func (o Order) Valid() bool { return o == Asc || o == Desc }

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// PageSize is a positive row count per page, or All.
type PageSize int

// All shows every row on a single page.
const All PageSize = 0

// PageSizes are the choices offered by the page-size selector.
var PageSizes = []PageSize{10, 20, 50, 100, All}

// IsAll reports whether p is the All sentinel.
func (p PageSize) IsAll() bool { return p == All }

// String returns "all" or the decimal size.
func (p PageSize) String() string {
	if p.IsAll() {
		return "all"
	}
	return strconv.Itoa(int(p))
}

// Defaults applied to absent or unparseable URL parameters.
const (
	DefaultField    = FieldName
	DefaultOperator = OpInclude
	DefaultPageSize = PageSize(20)
	DefaultPage     = 1
	DefaultColumn   = ColumnNone
	DefaultOrder    = Asc
)

// State is the complete set of filter, search, sort and pagination
// parameters for one view of the table.
type State struct {
	Field      Field    `json:"search_field"`
	Operator   Operator `json:"search_operator"`
	Text       string   `json:"search_value"`
	SortColumn Column   `json:"sort_column,omitempty"`
	SortOrder  Order    `json:"sort_order"`
	PageSize   PageSize `json:"page_size"`
	Page       int      `json:"page"`
}

// Default returns the state used when no parameters are given.
func Default() State {
	return State{
		Field:      DefaultField,
		Operator:   DefaultOperator,
		SortColumn: DefaultColumn,
		SortOrder:  DefaultOrder,
		PageSize:   DefaultPageSize,
		Page:       DefaultPage,
	}
}

// Sorted reports whether a sort column is selected.
func (s State) Sorted() bool { return s.SortColumn != ColumnNone }

// WithSearch returns s with new search criteria. The page is kept and
// clamped by the paginator if the result set shrinks.
func (s State) WithSearch(field Field, op Operator, text string) State {
	s.Field = field
	s.Operator = op
	s.Text = text
	return s
}

// WithPageSize returns s showing size rows per page, back on page 1.
func (s State) WithPageSize(size PageSize) State {
	s.PageSize = size
	s.Page = 1
	return s
}

// WithPage returns s on page n (at least 1).
func (s State) WithPage(n int) State {
	if n < 1 {
		n = 1
	}
	s.Page = n
	return s
}

// Next returns s on the following page, bounded by totalPages.
func (s State) Next(totalPages int) State {
	if s.Page < totalPages {
		s.Page++
	}
	return s
}

// Prev returns s on the preceding page, bounded by 1.
func (s State) Prev() State {
	if s.Page > 1 {
		s.Page--
	}
	return s
}

// ToggleSort returns s sorted by col. Selecting the current column flips the
// direction; selecting another column sorts it ascending.
func (s State) ToggleSort(col Column) State {
	if s.SortColumn == col {
		s.SortOrder = s.SortOrder.Flip()
		return s
	}
	s.SortColumn = col
	s.SortOrder = Asc
	return s
}
