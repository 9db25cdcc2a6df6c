package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'O', ColorRed)
	if got := s.GetCell(5, 5); got != (Cell{Rune: 'O', Color: ColorRed}) {
		t.Errorf("GetCell(5, 5) = %+v, expected red 'O'", got)
	}

	s.Set(5, 5, 'X')
	if got := s.GetCell(5, 5); got.Color != ColorDefault || got.Rune != 'X' {
		t.Errorf("Set should reset color, got %+v", got)
	}

	// Out of bounds is silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	s.DrawTextColored(0, 0, "XXXX", ColorBlue)

	s.Clear()

	for x := 0; x < 4; x++ {
		if got := s.GetCell(x, 0); got != blank {
			t.Errorf("After Clear cell %d = %+v", x, got)
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawTextColored(7, 1, "Hello", ColorYellow)

	if got := s.Row(1); got != "       Hel" {
		t.Errorf("Row(1) = %q, expected clipped text", got)
	}
	if s.GetCell(8, 1).Color != ColorYellow {
		t.Error("text should keep its color")
	}
}

func TestScreenDrawTextCenteredCountsRunes(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "●●", ColorDefault)

	if s.Get(4, 0) != '●' || s.Get(5, 0) != '●' {
		t.Errorf("Row(0) = %q, expected centered glyphs", s.Row(0))
	}
}

func TestScreenDrawTextCenteredKeepsStartOfLongText(t *testing.T) {
	s := NewScreen(6, 1)
	s.DrawTextCentered(0, "overflowing", ColorDefault)

	if got := s.Row(0); got != "overfl" {
		t.Errorf("Row(0) = %q, expected %q", got, "overfl")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorGray)

	expected := "┌───┐\n│   │\n│   │\n└───┘"
	if got := s.String(); got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
	if s.GetCell(0, 0).Color != ColorGray {
		t.Error("box should be colored")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("After resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("Content should be preserved, row 0 = %q", s.Row(0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", s.Row(0))
	}
}

func TestScreenRowOutOfBounds(t *testing.T) {
	s := NewScreen(10, 5)
	if got := s.Row(-1); got != "          " {
		t.Errorf("Out of bounds row should be spaces, got %q", got)
	}
}
