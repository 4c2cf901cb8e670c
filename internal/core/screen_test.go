package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, want 6x3", s.Width(), s.Height())
	}
	want := strings.Repeat("      \n", 2) + "      "
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestScreenBounds(t *testing.T) {
	s := NewScreen(4, 4)
	s.Set(2, 1, '*')

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"written", 2, 1, '*'},
		{"untouched", 0, 0, ' '},
		{"left", -1, 1, ' '},
		{"right", 4, 1, ' '},
		{"above", 2, -1, ' '},
		{"below", 2, 4, ' '},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Set(tt.x, tt.y, tt.want) // Out-of-bounds writes must not panic
			if got := s.Get(tt.x, tt.y); got != tt.want {
				t.Errorf("Get(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestScreenTextIsClipped(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawTextColor(5, 0, "HEALTH", ColorRed)
	s.DrawTextColor(-2, 1, "xxOK", ColorGreen)

	if got := s.Row(0); got != "     HEA" {
		t.Errorf("row 0 = %q", got)
	}
	if got := s.Row(1); got != "OK      " {
		t.Errorf("row 1 = %q", got)
	}
	if c := s.GetCell(5, 0); c.Color != ColorRed {
		t.Errorf("color = %v, want red", c.Color)
	}
}

func TestScreenTextCentered(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "PAUSED", ColorWhite)
	if got := s.Row(0); got != "  PAUSED   " {
		t.Errorf("row = %q", got)
	}
}

func TestScreenBoxAndRect(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawRect(NewRect(1, 1, 3, 2), '#', ColorGray)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorBlue)

	want := "┌───┐\n│###│\n│###│\n└───┘"
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	if c := s.GetCell(0, 0); c.Color != ColorBlue {
		t.Errorf("corner color = %v", c.Color)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawRect(NewRect(0, 0, 3, 2), 'x', ColorRed)
	s.Clear()
	if c := s.GetCell(1, 1); c != blank {
		t.Errorf("cell after Clear = %+v", c)
	}
}

func TestScreenResizeKeepsOverlap(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawTextColor(0, 0, "abcd", ColorDefault)
	s.DrawTextColor(0, 1, "efgh", ColorDefault)

	s.Resize(2, 3)
	if got := s.String(); got != "ab\nef\n  " {
		t.Errorf("after shrink %q", got)
	}

	s.Resize(3, 1)
	if got := s.String(); got != "ab " {
		t.Errorf("after reshape %q", got)
	}

	s.Resize(-1, 2)
	if s.Width() != 0 || s.Get(0, 0) != ' ' {
		t.Error("negative sizes should clamp to an empty screen")
	}
}

func TestRowOutOfRange(t *testing.T) {
	s := NewScreen(3, 1)
	if got := s.Row(7); got != "   " {
		t.Errorf("Row(7) = %q", got)
	}
}

func TestColorANSI(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{ColorDefault, ""},
		{ColorRed, "1"},
		{ColorBrightWhite, "15"},
		{ColorOrange, "208"},
		{ColorGray, "245"},
		{Color(200), ""},
	}
	for _, tt := range tests {
		if got := tt.c.ANSI(); got != tt.want {
			t.Errorf("Color(%d).ANSI() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
