package ui

import "testing"

func TestCursor_MoveClamps(t *testing.T) {
	var c cursor
	c.move(-1, 5)
	if c.pos != 0 {
		t.Errorf("pos = %d, want 0", c.pos)
	}
	c.move(10, 5)
	if c.pos != 4 {
		t.Errorf("pos = %d, want 4", c.pos)
	}
	c.move(1, 0)
	if c.pos != 0 {
		t.Errorf("pos on empty list = %d, want 0", c.pos)
	}
}

func TestCursor_Jump(t *testing.T) {
	var c cursor
	c.jump(false, 7)
	if c.pos != 6 {
		t.Errorf("pos = %d, want 6", c.pos)
	}
	c.jump(true, 7)
	if c.pos != 0 {
		t.Errorf("pos = %d, want 0", c.pos)
	}
}

func TestCursor_Visible(t *testing.T) {
	tests := []struct {
		name      string
		pos, n, h int
		wantStart int
		wantEnd   int
	}{
		{"fits", 2, 5, 10, 0, 5},
		{"top", 0, 50, 10, 0, 10},
		{"scrolls with margin", 10, 50, 10, 4, 14},
		{"bottom", 49, 50, 10, 40, 50},
		{"empty", 0, 0, 10, 0, 0},
		{"no room", 3, 10, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursor{pos: tt.pos}
			start, end := c.visible(tt.n, tt.h)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("visible() = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
			if tt.n > 0 && tt.h > 0 && (tt.pos < start || tt.pos >= end) {
				t.Errorf("cursor %d outside [%d, %d)", tt.pos, start, end)
			}
		})
	}
}
