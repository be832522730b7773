package dashboard

import (
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// DarkModeClass is the marker placed on the document root while dark mode is on.
const DarkModeClass = "dark"

// DocumentMarker applies or removes a presentation marker on the shared document
// root. Implementations must be idempotent.
type DocumentMarker interface {
	SetMarker(name string, enabled bool)
}

// ClassList is the class attribute of the rendered document root.
type ClassList struct {
	classes map[string]struct{}
}

// NewClassList builds a class list from the given names.
func NewClassList(names ...string) *ClassList {
	list := &ClassList{classes: map[string]struct{}{}}
	for _, name := range names {
		list.SetMarker(name, true)
	}
	return list
}

// SetMarker satisfies DocumentMarker.
func (l *ClassList) SetMarker(name string, enabled bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if l.classes == nil {
		l.classes = map[string]struct{}{}
	}
	if enabled {
		l.classes[name] = struct{}{}
		return
	}
	delete(l.classes, name)
}

// Has reports whether the class is present.
func (l *ClassList) Has(name string) bool {
	if l == nil {
		return false
	}
	_, ok := l.classes[name]
	return ok
}

// String renders the classes sorted, ready for a class attribute.
func (l *ClassList) String() string {
	if l == nil || len(l.classes) == 0 {
		return ""
	}
	names := make([]string, 0, len(l.classes))
	for name := range l.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

// ThemeState holds the dark-mode flag and keeps the document marker in sync.
type ThemeState struct {
	dark   bool
	marker DocumentMarker
}

// NewThemeState mounts the theme, applying the marker for the resting state.
func NewThemeState(dark bool, marker DocumentMarker) *ThemeState {
	t := &ThemeState{dark: dark, marker: marker}
	t.apply()
	return t
}

// Dark reports the current flag.
func (t *ThemeState) Dark() bool {
	return t.dark
}

// Toggle flips dark mode and returns the new value.
func (t *ThemeState) Toggle() bool {
	t.SetDark(!t.dark)
	return t.dark
}

// SetDark stores the flag and re-applies the marker.
func (t *ThemeState) SetDark(dark bool) {
	t.dark = dark
	t.apply()
}

func (t *ThemeState) apply() {
	if t.marker == nil {
		return
	}
	t.marker.SetMarker(DarkModeClass, t.dark)
}

// SidebarState holds the mobile sidebar flag. Only layouts below the lg
// breakpoint read it.
type SidebarState struct {
	open bool
}

// Open reports whether the sidebar is shown.
func (s *SidebarState) Open() bool {
	return s.open
}

// Toggle flips the flag and returns the new value.
func (s *SidebarState) Toggle() bool {
	s.open = !s.open
	return s.open
}

// ThemeSelection carries the palette tokens and chart theme for a variant.
type ThemeSelection struct {
	Name       string
	Variant    string
	Tokens     map[string]string
	ChartTheme string
}

var (
	lightTheme = ThemeSelection{
		Name:    "sales",
		Variant: "light",
		Tokens: map[string]string{
			"surface":    "#ffffff",
			"background": "#f9fafb",
			"text":       "#111827",
			"muted":      "#6b7280",
			"accent":     "#3b82f6",
		},
		ChartTheme: types.ThemeWesteros,
	}
	darkTheme = ThemeSelection{
		Name:    "sales",
		Variant: "dark",
		Tokens: map[string]string{
			"surface":    "#1f2937",
			"background": "#111827",
			"text":       "#ffffff",
			"muted":      "#9ca3af",
			"accent":     "#60a5fa",
		},
		ChartTheme: types.ThemeChalk,
	}
)

// ThemeFor returns the palette for the dark flag.
func ThemeFor(dark bool) ThemeSelection {
	if dark {
		return cloneThemeSelection(darkTheme)
	}
	return cloneThemeSelection(lightTheme)
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme ThemeSelection) CSSVariables() map[string]string {
	if len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string with
// deterministic ordering.
func (theme ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		value := vars[key]
		if value == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

func cloneThemeSelection(selection ThemeSelection) ThemeSelection {
	cloned := selection
	if len(selection.Tokens) > 0 {
		cloned.Tokens = make(map[string]string, len(selection.Tokens))
		for key, value := range selection.Tokens {
			cloned.Tokens[key] = value
		}
	}
	return cloned
}
