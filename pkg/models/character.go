package models

import (
	"strconv"
	"strings"
)

// Character is one record of the roster collection as served by the
// superhero-api data source. Records are immutable once loaded.
type Character struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Powerstats  Powerstats  `json:"powerstats"`
	Appearance  Appearance  `json:"appearance"`
	Biography   Biography   `json:"biography"`
	Work        Work        `json:"work"`
	Connections Connections `json:"connections"`
	Images      Images      `json:"images"`
}

// Powerstats holds the named stat scores of a character.
type Powerstats struct {
	Intelligence int `json:"intelligence"`
	Strength     int `json:"strength"`
	Speed        int `json:"speed"`
	Durability   int `json:"durability"`
	Power        int `json:"power"`
	Combat       int `json:"combat"`
}

// Stat is a single named powerstat score.
type Stat struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Stat names in display order.
const (
	StatIntelligence = "intelligence"
	StatStrength     = "strength"
	StatSpeed        = "speed"
	StatDurability   = "durability"
	StatPower        = "power"
	StatCombat       = "combat"
)

// Entries returns the stats as ordered name/score pairs.
func (p Powerstats) Entries() []Stat {
	return []Stat{
		{Name: StatIntelligence, Score: p.Intelligence},
		{Name: StatStrength, Score: p.Strength},
		{Name: StatSpeed, Score: p.Speed},
		{Name: StatDurability, Score: p.Durability},
		{Name: StatPower, Score: p.Power},
		{Name: StatCombat, Score: p.Combat},
	}
}

// String renders the stats as "intelligence: 38, strength: 100, ...".
func (p Powerstats) String() string {
	entries := p.Entries()
	parts := make([]string, len(entries))
	for i, s := range entries {
		parts[i] = s.Name + ": " + strconv.Itoa(s.Score)
	}
	return strings.Join(parts, ", ")
}

// Appearance describes physical attributes. Height and Weight are ordered
// value-with-unit sequences, imperial first, e.g. ["6'8", "203 cm"].
type Appearance struct {
	Gender    string   `json:"gender"`
	Race      string   `json:"race"`
	Height    []string `json:"height"`
	Weight    []string `json:"weight"`
	EyeColor  string   `json:"eyeColor"`
	HairColor string   `json:"hairColor"`
}

// Biography holds identity and background details.
type Biography struct {
	FullName        string   `json:"fullName"`
	AlterEgos       string   `json:"alterEgos"`
	Aliases         []string `json:"aliases"`
	PlaceOfBirth    string   `json:"placeOfBirth"`
	FirstAppearance string   `json:"firstAppearance"`
	Publisher       string   `json:"publisher"`
	Alignment       string   `json:"alignment"`
}

// Work holds occupation details.
type Work struct {
	Occupation string `json:"occupation"`
	Base       string `json:"base"`
}

// Connections holds group and family details.
type Connections struct {
	GroupAffiliation string `json:"groupAffiliation"`
	Relatives        string `json:"relatives"`
}

// Images holds portrait URLs at several resolutions.
type Images struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
}

// HeightCM returns the metric height in centimetres, if one is listed.
func (c Character) HeightCM() (int, bool) {
	return metric(c.Appearance.Height, map[string]float64{" cm": 1, " meters": 100})
}

// WeightKG returns the metric weight in kilograms, if one is listed.
func (c Character) WeightKG() (int, bool) {
	return metric(c.Appearance.Weight, map[string]float64{" kg": 1, " tons": 1000})
}

func metric(values []string, units map[string]float64) (int, bool) {
	for _, v := range values {
		for suffix, scale := range units {
			if !strings.HasSuffix(v, suffix) {
				continue
			}
			f, ok := LeadingFloat(v)
			if !ok || f == 0 {
				return 0, false
			}
			return int(f * scale), true
		}
	}
	return 0, false
}

// LeadingFloat parses the longest decimal number prefix of s after leading
// whitespace: "6'8" yields 6, "203 cm" yields 203, "-" is not a number.
func LeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
