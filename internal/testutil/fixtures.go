package testutil

import (
	"fmt"

	"github.com/HerbHall/roster/pkg/models"
)

// NewCharacter returns a Character with sensible defaults, suitable for test
// fixtures. Override individual fields with options.
func NewCharacter(id int, opts ...func(*models.Character)) models.Character {
	c := models.Character{
		ID:   id,
		Name: fmt.Sprintf("Hero %d", id),
		Slug: fmt.Sprintf("%d-hero-%d", id, id),
		Powerstats: models.Powerstats{
			Intelligence: 50, Strength: 50, Speed: 50,
			Durability: 50, Power: 50, Combat: 50,
		},
		Appearance: models.Appearance{
			Gender: "Male",
			Race:   "Human",
			Height: []string{"6'0", "183 cm"},
			Weight: []string{"180 lb", "81 kg"},
		},
		Biography: models.Biography{
			FullName:     fmt.Sprintf("Test Person %d", id),
			PlaceOfBirth: "New York",
			Publisher:    "Marvel Comics",
			Alignment:    "good",
		},
		Images: models.Images{
			XS: fmt.Sprintf("https://example.test/xs/%d.jpg", id),
			SM: fmt.Sprintf("https://example.test/sm/%d.jpg", id),
			MD: fmt.Sprintf("https://example.test/md/%d.jpg", id),
			LG: fmt.Sprintf("https://example.test/lg/%d.jpg", id),
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithName sets the character name.
func WithName(name string) func(*models.Character) {
	return func(c *models.Character) { c.Name = name }
}

// WithFullName sets the biography full name.
func WithFullName(name string) func(*models.Character) {
	return func(c *models.Character) { c.Biography.FullName = name }
}

// WithHeight sets the height sequence.
func WithHeight(values ...string) func(*models.Character) {
	return func(c *models.Character) { c.Appearance.Height = values }
}

// WithWeight sets the weight sequence.
func WithWeight(values ...string) func(*models.Character) {
	return func(c *models.Character) { c.Appearance.Weight = values }
}

// WithRace sets the race.
func WithRace(race string) func(*models.Character) {
	return func(c *models.Character) { c.Appearance.Race = race }
}

// WithGender sets the gender.
func WithGender(gender string) func(*models.Character) {
	return func(c *models.Character) { c.Appearance.Gender = gender }
}

// WithAlignment sets the biography alignment.
func WithAlignment(alignment string) func(*models.Character) {
	return func(c *models.Character) { c.Biography.Alignment = alignment }
}

// WithPublisher sets the biography publisher.
func WithPublisher(publisher string) func(*models.Character) {
	return func(c *models.Character) { c.Biography.Publisher = publisher }
}

// WithPowerstats sets all powerstats.
func WithPowerstats(p models.Powerstats) func(*models.Character) {
	return func(c *models.Character) { c.Powerstats = p }
}

// Characters returns n default characters with ids 1..n.
func Characters(n int) []models.Character {
	out := make([]models.Character, n)
	for i := range out {
		out[i] = NewCharacter(i + 1)
	}
	return out
}

// Roster returns a small, varied collection used across package tests.
func Roster() []models.Character {
	return []models.Character{
		NewCharacter(1, WithName("A-Bomb"), WithFullName("Richard Milhouse Jones"),
			WithHeight("6'8", "203 cm"), WithWeight("980 lb", "441 kg"),
			WithPowerstats(models.Powerstats{Intelligence: 38, Strength: 100, Speed: 17, Durability: 80, Power: 24, Combat: 64})),
		NewCharacter(2, WithName("Abe Sapien"), WithFullName("Abraham Sapien"), WithRace("Icthyo Sapien"),
			WithHeight("6'3", "191 cm"), WithWeight("145 lb", "65 kg"), WithPublisher("Dark Horse Comics"),
			WithPowerstats(models.Powerstats{Intelligence: 88, Strength: 28, Speed: 35, Durability: 65, Power: 100, Combat: 85})),
		NewCharacter(3, WithName("Abomination"), WithFullName("Emil Blonsky"), WithAlignment("bad"),
			WithHeight("6'8", "203 cm"), WithWeight("980 lb", "441 kg"), WithRace("Human / Radiation"),
			WithPowerstats(models.Powerstats{Intelligence: 63, Strength: 80, Speed: 53, Durability: 90, Power: 62, Combat: 95})),
		NewCharacter(4, WithName("Angel Dust"), WithFullName(""), WithGender("Female"), WithRace("Mutant"),
			WithHeight("5'5", "165 cm"), WithWeight("126 lb", "57 kg"), WithAlignment("Good"),
			WithPowerstats(models.Powerstats{Intelligence: 38, Strength: 55, Speed: 23, Durability: 42, Power: 17, Combat: 30})),
		NewCharacter(5, WithName("Ando Masahashi"), WithFullName("Ando Masahashi"), WithRace(""),
			WithHeight("-", "0 cm"), WithWeight("- lb", "0 kg"), WithPublisher("NBC - Heroes"),
			WithPowerstats(models.Powerstats{Intelligence: 50, Strength: 10, Speed: 12, Durability: 14, Power: 66, Combat: 28})),
	}
}
