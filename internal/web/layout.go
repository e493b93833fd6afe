package web

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/roster/internal/query"
)

//go:embed columns.yaml
var layoutRawData []byte

// ColumnDef describes one table column.
type ColumnDef struct {
	Key        query.Column `yaml:"key"`
	Label      string       `yaml:"label"`
	Searchable bool         `yaml:"searchable"`
}

// OperatorDef labels a search operator in the selector.
type OperatorDef struct {
	Key   query.Operator `yaml:"key"`
	Label string         `yaml:"label"`
}

type layoutFile struct {
	Columns   []ColumnDef   `yaml:"columns"`
	Operators []OperatorDef `yaml:"operators"`
}

// Layout provides lazy-loaded access to the embedded table layout.
type Layout struct {
	once      sync.Once
	columns   []ColumnDef
	operators []OperatorDef
	err       error
}

// NewLayout creates a Layout that parses the embedded YAML on first access.
func NewLayout() *Layout {
	return &Layout{}
}

// Columns returns a copy of the column definitions in display order.
func (l *Layout) Columns() ([]ColumnDef, error) {
	l.once.Do(l.load)
	if l.err != nil {
		return nil, l.err
	}
	cp := make([]ColumnDef, len(l.columns))
	copy(cp, l.columns)
	return cp, nil
}

// Operators returns a copy of the operator labels in selector order.
func (l *Layout) Operators() ([]OperatorDef, error) {
	l.once.Do(l.load)
	if l.err != nil {
		return nil, l.err
	}
	cp := make([]OperatorDef, len(l.operators))
	copy(cp, l.operators)
	return cp, nil
}

func (l *Layout) load() {
	l.columns, l.operators, l.err = parseLayout(layoutRawData)
}

func parseLayout(data []byte) ([]ColumnDef, []OperatorDef, error) {
	var f layoutFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("layout: parse yaml: %w", err)
	}
	if len(f.Columns) == 0 {
		return nil, nil, fmt.Errorf("layout: no columns defined")
	}
	for _, c := range f.Columns {
		if c.Key == query.ColumnNone || !c.Key.Valid() {
			return nil, nil, fmt.Errorf("layout: unknown column %q", c.Key)
		}
		if c.Searchable && !query.Field(c.Key).Valid() {
			return nil, nil, fmt.Errorf("layout: column %q is not a search field", c.Key)
		}
	}
	for _, o := range f.Operators {
		if !o.Key.Valid() {
			return nil, nil, fmt.Errorf("layout: unknown operator %q", o.Key)
		}
	}
	return f.Columns, f.Operators, nil
}
