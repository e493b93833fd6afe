package web

import (
	"strconv"
	"strings"

	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/table"
	"github.com/HerbHall/roster/pkg/models"
)

const notAvailable = "N/A"

// Link is a labelled href. An empty Href renders as disabled text.
type Link struct {
	Label    string
	Href     string
	Selected bool
}

// Option is one entry of a select control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Hidden is a hidden form input that carries state through a search submit.
type Hidden struct {
	Name  string
	Value string
}

// Header is a sortable column heading.
type Header struct {
	Label string
	Href  string
	// Class is "sort-asc" or "sort-desc" on the active sort column.
	Class string
}

// Cell is one table cell. Image renders an <img>; Href renders a link.
type Cell struct {
	Text  string
	Image string
	Href  string
}

// Row is one rendered record.
type Row struct {
	ID    int
	Cells []Cell
}

// Pager holds the previous/next links and the page indicator.
type Pager struct {
	Page       int
	TotalPages int
	Total      int
	Prev       string
	Next       string
}

// Field is a labelled value in the detail panel.
type Field struct {
	Label string
	Value string
}

// Detail is the expanded view of one record.
type Detail struct {
	ID     int
	Name   string
	Image  string
	Fields []Field
}

// Page is the template data for the table view.
type Page struct {
	Title     string
	Notice    string
	Fields    []Option
	Operators []Option
	Search    string
	Hidden    []Hidden
	Headers   []Header
	Rows      []Row
	Pager     Pager
	PageSizes []Link
	Detail    *Detail
	CloseHref string
}

// TableHref is the link to the table view for s.
func TableHref(s query.State) string {
	return "/?" + s.Encode()
}

// DetailHref is the link to the detail panel of record id, keeping s.
func DetailHref(id int, s query.State) string {
	return "/characters/" + strconv.Itoa(id) + "?" + s.Encode()
}

// buildPage maps a pipeline view onto template data. Every link it emits is
// a serialized state derived from v.State.
func buildPage(title string, columns []ColumnDef, operators []OperatorDef, v table.View) Page {
	st := v.State
	p := Page{
		Title:     title,
		Search:    st.Text,
		Hidden:    hiddenState(st),
		CloseHref: TableHref(st),
		Pager: Pager{
			Page:       v.Page.Page,
			TotalPages: v.TotalPages,
			Total:      v.Total,
		},
	}

	for _, c := range columns {
		if c.Searchable {
			p.Fields = append(p.Fields, Option{
				Value:    string(c.Key),
				Label:    c.Label,
				Selected: query.Field(c.Key) == st.Field,
			})
		}
		h := Header{Label: c.Label, Href: TableHref(st.ToggleSort(c.Key))}
		if st.SortColumn == c.Key {
			h.Class = "sort-" + string(st.SortOrder)
		}
		p.Headers = append(p.Headers, h)
	}

	for _, o := range operators {
		p.Operators = append(p.Operators, Option{
			Value:    string(o.Key),
			Label:    o.Label,
			Selected: o.Key == st.Operator,
		})
	}

	for i := range v.Items {
		p.Rows = append(p.Rows, buildRow(&v.Items[i], columns, st))
	}

	if v.HasPrev() {
		p.Pager.Prev = TableHref(st.Prev())
	}
	if v.HasNext() {
		p.Pager.Next = TableHref(st.Next(v.TotalPages))
	}

	for _, size := range query.PageSizes {
		label := size.String()
		if size.IsAll() {
			label = "All"
		}
		p.PageSizes = append(p.PageSizes, Link{
			Label:    label,
			Href:     TableHref(st.WithPageSize(size)),
			Selected: size == st.PageSize,
		})
	}
	return p
}

// hiddenState carries the non-search parameters through the search form.
func hiddenState(st query.State) []Hidden {
	values := st.Values()
	var out []Hidden
	for _, name := range []string{query.ParamPageSize, query.ParamPage, query.ParamSortColumn, query.ParamSortOrder} {
		if v := values.Get(name); v != "" {
			out = append(out, Hidden{Name: name, Value: v})
		}
	}
	return out
}

func buildRow(c *models.Character, columns []ColumnDef, st query.State) Row {
	row := Row{ID: c.ID, Cells: make([]Cell, 0, len(columns))}
	for _, col := range columns {
		switch col.Key {
		case query.ColumnIcon:
			row.Cells = append(row.Cells, Cell{Text: c.Name, Image: c.Images.XS})
		case query.ColumnName:
			row.Cells = append(row.Cells, Cell{Text: c.Name, Href: DetailHref(c.ID, st)})
		default:
			row.Cells = append(row.Cells, Cell{Text: cellText(c, col.Key)})
		}
	}
	return row
}

func cellText(c *models.Character, col query.Column) string {
	switch col {
	case query.ColumnName:
		return c.Name
	case query.ColumnFullName:
		return orNA(c.Biography.FullName)
	case query.ColumnPowerstats:
		return c.Powerstats.String()
	case query.ColumnRace:
		return orNA(c.Appearance.Race)
	case query.ColumnGender:
		return orNA(c.Appearance.Gender)
	case query.ColumnHeight:
		return orNA(strings.Join(c.Appearance.Height, ", "))
	case query.ColumnWeight:
		return orNA(strings.Join(c.Appearance.Weight, ", "))
	case query.ColumnPlaceOfBirth:
		return orNA(c.Biography.PlaceOfBirth)
	case query.ColumnAlignment:
		return orNA(c.Biography.Alignment)
	default:
		return ""
	}
}

func buildDetail(c *models.Character) *Detail {
	return &Detail{
		ID:    c.ID,
		Name:  c.Name,
		Image: c.Images.MD,
		Fields: []Field{
			{"Full Name", orNA(c.Biography.FullName)},
			{"Powerstats", c.Powerstats.String()},
			{"Race", orNA(c.Appearance.Race)},
			{"Gender", orNA(c.Appearance.Gender)},
			{"Height", orNA(strings.Join(c.Appearance.Height, ", "))},
			{"Weight", orNA(strings.Join(c.Appearance.Weight, ", "))},
			{"Place of Birth", orNA(c.Biography.PlaceOfBirth)},
			{"Alignment", orNA(c.Biography.Alignment)},
			{"Publisher", orNA(c.Biography.Publisher)},
			{"First Appearance", orNA(c.Biography.FirstAppearance)},
			{"Occupation", orNA(c.Work.Occupation)},
			{"Group Affiliation", orNA(c.Connections.GroupAffiliation)},
		},
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
