package filterexpr

import (
	"fmt"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/HerbHall/roster/pkg/models"
)

// CharacterFields are the identifiers available in character filters.
var CharacterFields = Fields{
	"id":           FieldInt,
	"name":         FieldString,
	"fullname":     FieldString,
	"slug":         FieldString,
	"race":         FieldString,
	"gender":       FieldString,
	"placeofbirth": FieldString,
	"alignment":    FieldString,
	"publisher":    FieldString,
	"eyecolor":     FieldString,
	"haircolor":    FieldString,
	"intelligence": FieldInt,
	"strength":     FieldInt,
	"speed":        FieldInt,
	"durability":   FieldInt,
	"power":        FieldInt,
	"combat":       FieldInt,
	"height_cm":    FieldInt,
	"weight_kg":    FieldInt,
}

// Program is a compiled character filter. The zero value and nil match all.
type Program struct {
	source string
	expr   *expr.Expr
}

// Compile parses s against CharacterFields. Errors wrap ErrInvalid.
func Compile(s string) (*Program, error) {
	e, err := Parse(s, CharacterFields)
	if err != nil {
		return nil, err
	}
	return &Program{source: s, expr: e}, nil
}

// String returns the expression as written.
func (p *Program) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Empty reports whether the program matches every record.
func (p *Program) Empty() bool {
	return p == nil || p.expr == nil
}

// Match evaluates the program against one character.
func (p *Program) Match(c *models.Character) (bool, error) {
	if p.Empty() {
		return true, nil
	}
	return Evaluate(p.expr, characterResolver(c))
}

// Apply returns the records that match, in input order. The input is never
// modified.
func (p *Program) Apply(records []models.Character) ([]models.Character, error) {
	if p.Empty() {
		return records, nil
	}
	out := make([]models.Character, 0, len(records))
	for i := range records {
		ok, err := p.Match(&records[i])
		if err != nil {
			return nil, fmt.Errorf("evaluate filter on character %d: %w", records[i].ID, err)
		}
		if ok {
			out = append(out, records[i])
		}
	}
	return out, nil
}

func characterResolver(c *models.Character) Resolver {
	return func(name string) (any, bool) {
		switch name {
		case "id":
			return int64(c.ID), true
		case "name":
			return optional(c.Name), true
		case "fullname":
			return optional(c.Biography.FullName), true
		case "slug":
			return optional(c.Slug), true
		case "race":
			return optional(c.Appearance.Race), true
		case "gender":
			return optional(c.Appearance.Gender), true
		case "placeofbirth":
			return optional(c.Biography.PlaceOfBirth), true
		case "alignment":
			return optional(c.Biography.Alignment), true
		case "publisher":
			return optional(c.Biography.Publisher), true
		case "eyecolor":
			return optional(c.Appearance.EyeColor), true
		case "haircolor":
			return optional(c.Appearance.HairColor), true
		case "intelligence":
			return int64(c.Powerstats.Intelligence), true
		case "strength":
			return int64(c.Powerstats.Strength), true
		case "speed":
			return int64(c.Powerstats.Speed), true
		case "durability":
			return int64(c.Powerstats.Durability), true
		case "power":
			return int64(c.Powerstats.Power), true
		case "combat":
			return int64(c.Powerstats.Combat), true
		case "height_cm":
			if v, ok := c.HeightCM(); ok {
				return int64(v), true
			}
			return nil, true
		case "weight_kg":
			if v, ok := c.WeightKG(); ok {
				return int64(v), true
			}
			return nil, true
		default:
			return nil, false
		}
	}
}

// optional maps the empty string to an absent value.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
