package query

import (
	"net/url"
	"strconv"
	"strings"
)

// URL query parameter names.
const (
	ParamField       = "searchField"
	ParamOperator    = "searchOperator"
	ParamText        = "searchValue"
	ParamPageSize    = "pageSize"
	ParamPage        = "page"
	ParamCurrentPage = "currentPage"
	ParamSortColumn  = "sortColumn"
	ParamSortOrder   = "sortOrder"
)

// Values serializes s into URL query values. The sort column is omitted
// when the view is unsorted.
func (s State) Values() url.Values {
	v := url.Values{}
	v.Set(ParamField, string(s.Field))
	v.Set(ParamOperator, string(s.Operator))
	v.Set(ParamText, s.Text)
	v.Set(ParamPageSize, s.PageSize.String())
	v.Set(ParamPage, strconv.Itoa(s.Page))
	if s.SortColumn != ColumnNone {
		v.Set(ParamSortColumn, string(s.SortColumn))
	}
	v.Set(ParamSortOrder, string(s.SortOrder))
	return v
}

// Encode serializes s into a canonical query string (keys sorted), suitable
// both for links and as a cache key.
func (s State) Encode() string {
	return s.Values().Encode()
}

// Decode builds a State from URL query values. It never fails: every absent
// or invalid parameter falls back to its default.
func Decode(v url.Values) State {
	s := Default()

	if f := Field(v.Get(ParamField)); f.Valid() {
		s.Field = f
	}
	if o := Operator(v.Get(ParamOperator)); o.Valid() {
		s.Operator = o
	}
	s.Text = v.Get(ParamText)

	if size, ok := parsePageSize(v.Get(ParamPageSize)); ok {
		s.PageSize = size
	}

	page := v.Get(ParamPage)
	if page == "" {
		page = v.Get(ParamCurrentPage)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n >= 1 {
		s.Page = n
	}

	if c := Column(v.Get(ParamSortColumn)); c.Valid() {
		s.SortColumn = c
	}
	if o := Order(v.Get(ParamSortOrder)); o.Valid() {
		s.SortOrder = o
	}
	return s
}

// Parse decodes a raw query string, with or without a leading '?'.
// Malformed input yields the defaults for whatever could not be read.
func Parse(raw string) State {
	v, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(v)
}

func parsePageSize(raw string) (PageSize, bool) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "all") {
		return All, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return PageSize(n), true
}
