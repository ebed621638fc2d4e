package schema

import "strings"

// Console palettes. Emerald mirrors the SOC green of the web portfolio.
const (
	ThemeEmerald ThemeName = "emerald"
	ThemeAmber   ThemeName = "amber"
	ThemeOutrun  ThemeName = "outrun"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = ThemeEmerald

var themeAliases = map[string]ThemeName{
	"emerald":         ThemeEmerald,
	"soc":             ThemeEmerald,
	"green":           ThemeEmerald,
	"amber":           ThemeAmber,
	"phosphor":        ThemeAmber,
	"outrun":          ThemeOutrun,
	"outrun-electric": ThemeOutrun,
}

// AvailableThemes returns the canonical theme names, sorted.
func AvailableThemes() []ThemeName {
	return []ThemeName{ThemeAmber, ThemeEmerald, ThemeOutrun}
}

// NormalizeThemeName resolves a theme name or alias. Case, surrounding
// space and underscores are ignored.
func NormalizeThemeName(name string) (ThemeName, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	theme, ok := themeAliases[key]
	return theme, ok
}
