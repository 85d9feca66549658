// internal/display/lcd.go
package display

import "strings"

// Geometry of the character display. Columns are addressed 1..Cells:
// 1..Width is the first line, Width+1..Cells the second.
const (
	Width = 16
	Lines = 2
	Cells = Width * Lines

	// Line2 is the first column of the second line.
	Line2 = Width + 1
)

// Display is the text renderer the state machines write to.
// Writes past the last cell are dropped.
type Display interface {
	Clear()
	WriteAt(col int, s string)
}

// Show clears the display and writes the two lines of a screen.
func Show(d Display, line1, line2 string) {
	d.Clear()
	d.WriteAt(1, line1)
	if line2 != "" {
		d.WriteAt(Line2, line2)
	}
}

// LCD is an in-memory 16x2 character display.
type LCD struct {
	cells [Cells]byte
}

// NewLCD returns a blank display.
func NewLCD() *LCD {
	l := &LCD{}
	l.Clear()
	return l
}

func (l *LCD) Clear() {
	for i := range l.cells {
		l.cells[i] = ' '
	}
}

func (l *LCD) WriteAt(col int, s string) {
	if col < 1 {
		return
	}
	for i := 0; i < len(s); i++ {
		idx := col - 1 + i
		if idx >= Cells {
			return
		}
		c := s[i]
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		l.cells[idx] = c
	}
}

// Line returns line n (1 or 2) with trailing blanks removed.
func (l *LCD) Line(n int) string {
	if n < 1 || n > Lines {
		return ""
	}
	start := (n - 1) * Width
	return strings.TrimRight(string(l.cells[start:start+Width]), " ")
}

// String renders both lines separated by a newline.
func (l *LCD) String() string {
	return l.Line(1) + "\n" + l.Line(2)
}
