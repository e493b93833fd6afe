// Package filterexpr parses AIP-160 filter expressions such as
//
//	publisher = "Marvel Comics" AND strength >= 80
//
// and evaluates them in memory against characters.
package filterexpr

import (
	"errors"
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// ErrInvalid wraps every parse and type-check failure.
var ErrInvalid = errors.New("invalid filter")

// FieldType describes a supported filter field type.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
)

// Fields defines filterable fields and their types.
type Fields map[string]FieldType

// Parse parses an AIP-160 filter expression for the provided fields. An empty
// expression yields a nil *expr.Expr, which matches everything.
func Parse(filterStr string, fields Fields) (*expr.Expr, error) {
	if strings.TrimSpace(filterStr) == "" {
		return nil, nil
	}

	decls, err := declarations(fields)
	if err != nil {
		return nil, err
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return filter.CheckedExpr.Expr, nil
}

// fuzzyAnd backs implicit AND ("a = 1 b = 2"), which the parser emits as
// FUZZY but the standard declarations omit.
var fuzzyAnd = filtering.DeclareFunction(
	filtering.FunctionFuzzyAnd,
	filtering.NewFunctionOverload(filtering.FunctionFuzzyAnd+"_bool", filtering.TypeBool, filtering.TypeBool, filtering.TypeBool),
)

func declarations(fields Fields) (*filtering.Declarations, error) {
	decls := []filtering.DeclarationOption{filtering.DeclareStandardFunctions(), fuzzyAnd}
	for name, kind := range fields {
		switch kind {
		case FieldString:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeString))
		case FieldInt:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeInt))
		default:
			return nil, fmt.Errorf("unsupported field type for %s", name)
		}
	}

	return filtering.NewDeclarations(decls...)
}
