package console

import (
	"strconv"

	"pkt.systems/socfolio/schema"
)

type rgb struct {
	r int
	g int
	b int
}

type palette struct {
	Name     schema.ThemeName
	BarBG    rgb
	BarFG    rgb
	Accent   rgb
	Text     rgb
	Muted    rgb
	Faint    rgb
	Focus    rgb
	Error    rgb
	Echo     rgb
	Prompt   rgb
	Progress rgb
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
)

var palettes = map[schema.ThemeName]palette{
	schema.ThemeEmerald: {
		Name:     schema.ThemeEmerald,
		BarBG:    rgb{r: 2, g: 44, b: 34},
		BarFG:    rgb{r: 52, g: 211, b: 153},
		Accent:   rgb{r: 52, g: 211, b: 153},
		Text:     rgb{r: 209, g: 250, b: 229},
		Muted:    rgb{r: 4, g: 120, b: 87},
		Faint:    rgb{r: 6, g: 78, b: 59},
		Focus:    rgb{r: 110, g: 231, b: 183},
		Error:    rgb{r: 248, g: 113, b: 113},
		Echo:     rgb{r: 255, g: 255, b: 255},
		Prompt:   rgb{r: 16, g: 185, b: 129},
		Progress: rgb{r: 16, g: 185, b: 129},
	},
	schema.ThemeAmber: {
		Name:     schema.ThemeAmber,
		BarBG:    rgb{r: 51, g: 33, b: 0},
		BarFG:    rgb{r: 255, g: 176, b: 0},
		Accent:   rgb{r: 255, g: 176, b: 0},
		Text:     rgb{r: 255, g: 214, b: 138},
		Muted:    rgb{r: 166, g: 112, b: 0},
		Faint:    rgb{r: 102, g: 68, b: 0},
		Focus:    rgb{r: 255, g: 204, b: 77},
		Error:    rgb{r: 255, g: 94, b: 58},
		Echo:     rgb{r: 255, g: 236, b: 200},
		Prompt:   rgb{r: 255, g: 176, b: 0},
		Progress: rgb{r: 255, g: 176, b: 0},
	},
	schema.ThemeOutrun: {
		Name:     schema.ThemeOutrun,
		BarBG:    rgb{r: 32, g: 8, b: 56},
		BarFG:    rgb{r: 0, g: 229, b: 255},
		Accent:   rgb{r: 0, g: 229, b: 255},
		Text:     rgb{r: 240, g: 241, b: 255},
		Muted:    rgb{r: 154, g: 163, b: 178},
		Faint:    rgb{r: 60, g: 79, b: 184},
		Focus:    rgb{r: 255, g: 91, b: 189},
		Error:    rgb{r: 255, g: 107, b: 107},
		Echo:     rgb{r: 255, g: 255, b: 255},
		Prompt:   rgb{r: 110, g: 136, b: 255},
		Progress: rgb{r: 255, g: 91, b: 189},
	},
}

func paletteFor(name schema.ThemeName) palette {
	if normalized, ok := schema.NormalizeThemeName(string(name)); ok {
		return palettes[normalized]
	}
	return palettes[schema.DefaultTheme]
}

func fg(c rgb) string {
	return "\x1b[38;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}

func bg(c rgb) string {
	return "\x1b[48;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}

// lineStyle maps a transcript line kind onto a color.
func (p palette) lineStyle(kind schema.LineKind) string {
	switch kind {
	case schema.LineError:
		return fg(p.Error)
	case schema.LineEcho:
		return fg(p.Echo)
	case schema.LineResult:
		return fg(p.Text)
	default:
		return fg(p.Accent)
	}
}
