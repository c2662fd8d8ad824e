package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell"

	timecode "github.com/llehouerou/go-timecode"
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle    = lipgloss.NewStyle().Bold(true)
	trackingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	unsyncedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// positionText formats a position as elapsed time and cycle count.
func positionText(f *timecode.Format, s timecode.Snapshot) string {
	if !s.Valid {
		return "--:--.--- (------)"
	}
	sec := f.Seconds(s.Position)
	m := int(sec) / 60
	return fmt.Sprintf("%02d:%06.3f (%6d)", m, sec-float64(60*m), s.Position)
}

// statusLine renders a one-line decoder status.
func statusLine(f *timecode.Format, s timecode.Snapshot) string {
	st := unsyncedStyle
	if s.Status == timecode.Tracking {
		st = trackingStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		st.Render(fmt.Sprintf("%-8s", s.Status)), "  ",
		labelStyle.Render("pos "), valueStyle.Render(positionText(f, s)), "  ",
		labelStyle.Render("dir "), valueStyle.Render(fmt.Sprintf("%-8s", s.Direction)), "  ",
		labelStyle.Render("pitch "), valueStyle.Render(fmt.Sprintf("%+6.3f", s.Pitch)),
	)
}

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}

func box(s tcell.Screen, x, y, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)
	for col := x + 1; col < x+w; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h, tcell.RuneHLine, nil, style)
	}
	for row := y + 1; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, row, tcell.RuneVLine, nil, style)
	}
}

func phosphor(v byte) tcell.Color {
	g := int32(v)
	return tcell.NewRGBColor(g/4, g, g/4)
}

// scopeBox draws a size x size pixel buffer with its top left corner at
// (x, y). Each cell shows two pixel rows as an upper half block.
func scopeBox(s tcell.Screen, x, y, size int, pixels []byte) {
	box(s, x-1, y-1, size+1, size/2+1)
	drawString(s, x+1, y-1, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true), " Scope ")
	for row := 0; row+1 < size; row += 2 {
		for col := 0; col < size; col++ {
			style := tcell.StyleDefault.
				Foreground(phosphor(pixels[row*size+col])).
				Background(phosphor(pixels[(row+1)*size+col]))
			s.SetContent(x+col, y+row/2, '▀', nil, style)
		}
	}
}

// statusBox draws the decoder state with its top left corner at (x, y).
func statusBox(s tcell.Screen, x, y int, f *timecode.Format, snap timecode.Snapshot) {
	const w, h = 36, 9
	box(s, x, y, w, h)
	bold := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	drawString(s, x+2, y, bold, " "+f.Name()+" ")

	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	if snap.Status == timecode.Tracking {
		statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	}
	plain := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	lines := []struct {
		label string
		value string
		style tcell.Style
	}{
		{"status", snap.Status.String(), statusStyle},
		{"position", positionText(f, snap), plain},
		{"direction", snap.Direction.String(), plain},
		{"speed", fmt.Sprintf("%.3f", snap.Speed), plain},
		{"pitch", fmt.Sprintf("%+.3f", snap.Pitch), plain},
		{"bit", fmt.Sprintf("%d", snap.Bit), plain},
		{"pulses", fmt.Sprintf("%.1f / %.1f", snap.PulseWidths[0], snap.PulseWidths[1]), plain},
	}
	for i, l := range lines {
		row := y + 1 + i
		for col := x + 1; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
		drawString(s, x+2, row, tcell.StyleDefault.Foreground(tcell.ColorGray), l.label)
		drawString(s, x+13, row, l.style, l.value)
	}
}
