package testutil

import (
	"context"
	"testing"
	"time"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()
	start := c.Now()
	c.Advance(5 * time.Minute)
	if got := c.Now().Sub(start); got != 5*time.Minute {
		t.Errorf("Advance: elapsed = %v, want 5m", got)
	}
}

func TestClock_Set(t *testing.T) {
	c := NewClock()
	target := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	c.Set(target)
	if !c.Now().Equal(target) {
		t.Errorf("Set: got %v, want %v", c.Now(), target)
	}
}

func TestClock_Ticking(t *testing.T) {
	c := NewClock()
	now := c.Ticking(time.Second)
	first, second := now(), now()
	if !first.Equal(Epoch) {
		t.Errorf("first reading = %v, want %v", first, Epoch)
	}
	if got := second.Sub(first); got != time.Second {
		t.Errorf("step = %v, want 1s", got)
	}
	if !c.Now().Equal(Epoch.Add(2 * time.Second)) {
		t.Errorf("clock = %v after two readings", c.Now())
	}
}

func TestNewCharacter_Defaults(t *testing.T) {
	c := NewCharacter(7)
	if c.ID != 7 {
		t.Errorf("ID = %d, want 7", c.ID)
	}
	if c.Name != "Hero 7" {
		t.Errorf("Name = %q, want Hero 7", c.Name)
	}
	if len(c.Appearance.Height) != 2 {
		t.Errorf("Height = %v, want two entries", c.Appearance.Height)
	}
}

func TestNewCharacter_WithOptions(t *testing.T) {
	c := NewCharacter(1,
		WithName("Storm"),
		WithGender("Female"),
		WithHeight(),
	)
	if c.Name != "Storm" {
		t.Errorf("Name = %q, want Storm", c.Name)
	}
	if c.Appearance.Gender != "Female" {
		t.Errorf("Gender = %q, want Female", c.Appearance.Gender)
	}
	if len(c.Appearance.Height) != 0 {
		t.Errorf("Height = %v, want empty", c.Appearance.Height)
	}
}

func TestRoster_UniqueIDs(t *testing.T) {
	seen := map[int]bool{}
	for _, c := range Roster() {
		if seen[c.ID] {
			t.Fatalf("duplicate id %d", c.ID)
		}
		seen[c.ID] = true
	}
}
