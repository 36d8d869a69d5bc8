// Package theme maps the dark and light palettes onto terminal styles.
package theme

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Name identifies a palette.
type Name string

const (
	Dark  Name = "dark"
	Light Name = "light"
	// Auto picks Dark or Light from the terminal background.
	Auto Name = "auto"
)

// Parse validates a theme name.
func Parse(s string) (Name, error) {
	switch n := Name(strings.ToLower(strings.TrimSpace(s))); n {
	case Dark, Light, Auto:
		return n, nil
	case "":
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want dark, light or auto)", s)
	}
}

// Resolve turns Auto into Dark or Light using hasDark.
func (n Name) Resolve(hasDark func() bool) Name {
	if n != Auto {
		return n
	}
	if hasDark() {
		return Dark
	}
	return Light
}

// Toggle returns the opposite palette. Auto is resolved first.
func (n Name) Toggle(hasDark func() bool) Name {
	if n.Resolve(hasDark) == Dark {
		return Light
	}
	return Dark
}

// Palette is a set of named colors.
type Palette struct {
	Background lipgloss.Color
	Panel      lipgloss.Color
	Card       lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Danger     lipgloss.Color
	Success    lipgloss.Color
	RowAlt     lipgloss.Color
}

var (
	DarkPalette = Palette{
		Background: "#0F1720",
		Panel:      "#111827",
		Card:       "#0B1220",
		Foreground: "#E6EEF6",
		Muted:      "#9AA6B2",
		Accent:     "#60A5FA",
		Border:     "#1F2937",
		Danger:     "#F87171",
		Success:    "#34D399",
		RowAlt:     "#0A1520",
	}

	LightPalette = Palette{
		Background: "#F7FAFC",
		Panel:      "#FFFFFF",
		Card:       "#FAFBFF",
		Foreground: "#0B1220",
		Muted:      "#54606E",
		Accent:     "#2563EB",
		Border:     "#E6EEF6",
		Danger:     "#DC2626",
		Success:    "#059669",
		RowAlt:     "#F3F6F9",
	}
)

// PaletteFor returns the palette of a resolved name. Anything but Light is
// dark.
func PaletteFor(n Name) Palette {
	if n == Light {
		return LightPalette
	}
	return DarkPalette
}

// Styles provides styled output helpers bound to one writer.
type Styles struct {
	Name    Name
	Palette Palette

	renderer *lipgloss.Renderer

	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Amount  lipgloss.Style
	Danger  lipgloss.Style
	Success lipgloss.Style
	Card    lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	CellAlt lipgloss.Style
	Bar     lipgloss.Style
}

// New creates styles for w. Auto is resolved against the background of w.
func New(w io.Writer, n Name) *Styles {
	out := termenv.NewOutput(w)
	n = n.Resolve(out.HasDarkBackground)
	return NewWithPalette(w, n, PaletteFor(n))
}

// NewWithPalette creates styles for w from an explicit palette.
func NewWithPalette(w io.Writer, n Name, p Palette) *Styles {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().Foreground(p.Foreground)

	return &Styles{
		Name:     n,
		Palette:  p,
		renderer: r,
		Title:    base.Bold(true).Foreground(p.Accent),
		Label:    r.NewStyle().Foreground(p.Muted),
		Muted:    r.NewStyle().Foreground(p.Muted).Faint(true),
		Accent:   r.NewStyle().Foreground(p.Accent),
		Amount:   base.Bold(true),
		Danger:   r.NewStyle().Foreground(p.Danger).Bold(true),
		Success:  r.NewStyle().Foreground(p.Success).Bold(true),
		Card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 2).
			MarginRight(1),
		Header:  r.NewStyle().Bold(true).Foreground(p.Accent).Padding(0, 1),
		Cell:    base.Padding(0, 1),
		CellAlt: base.Padding(0, 1).Background(p.RowAlt),
		Bar:     r.NewStyle().Foreground(p.Accent),
	}
}

// Renderer returns the lipgloss renderer bound to the writer.
func (s *Styles) Renderer() *lipgloss.Renderer {
	return s.renderer
}
