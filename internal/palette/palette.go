package palette

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"raincloud/domain/core"
)

// Builtin palette names, in the order the theme selector shows them.
const (
	Aurora     = "Aurora"
	Neon       = "Neon"
	Monochrome = "Monochrome"
	Ocean      = "Ocean"
	Custom     = "Custom"
)

var builtin = map[string][]string{
	Aurora:     {"#88CCEE", "#44AA99", "#117733", "#999933", "#DDCC77", "#CC6677", "#882255", "#AA4499"},
	Neon:       {"#ff00ff", "#00ffff", "#ffff00", "#00ff00", "#ff5500", "#0088ff", "#8800ff", "#ff0088"},
	Monochrome: {"#E0E0E0", "#C0C0C0", "#A0A0A0", "#808080", "#606060", "#404040", "#202020"},
	Ocean:      {"#003f5c", "#2f4b7c", "#665191", "#a05195", "#d45087", "#f95d6a", "#ff7c43", "#ffa600"},
}

var builtinOrder = []string{Aurora, Neon, Monochrome, Ocean}

// Registry resolves palette names to ordered color lists. The builtin themes
// are always present; additional named palettes can be registered at runtime.
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	extra map[string][]string
}

// NewRegistry creates a registry with the builtin themes.
func NewRegistry() *Registry {
	return &Registry{extra: make(map[string][]string)}
}

// Default is the process-wide registry the handlers resolve against.
var Default = NewRegistry()

// Register adds a named palette. Builtin names and Custom cannot be
// replaced, and every color must be a hex code.
func (r *Registry) Register(name string, colors []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: palette name is empty", core.ErrInvalidPalette)
	}
	if _, taken := builtin[name]; taken || name == Custom {
		return fmt.Errorf("%w: %q is reserved", core.ErrInvalidPalette, name)
	}
	if len(colors) == 0 {
		return fmt.Errorf("%w: palette %q has no colors", core.ErrInvalidPalette, name)
	}
	for _, c := range colors {
		if !validHex(c) {
			return fmt.Errorf("%w: %q is not a hex color", core.ErrInvalidPalette, c)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.extra[name] = append([]string(nil), colors...)
	return nil
}

// Names lists every selectable palette: builtins first, registered ones
// sorted, Custom last.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), builtinOrder...)
	registered := make([]string, 0, len(r.extra))
	for name := range r.extra {
		registered = append(registered, name)
	}
	sort.Strings(registered)
	names = append(names, registered...)
	return append(names, Custom)
}

// Resolve returns the color list for a palette name. For Custom the list is
// parsed from the comma-separated hex codes in custom.
func (r *Registry) Resolve(name, custom string) ([]string, error) {
	if name == Custom {
		return ParseCustom(custom)
	}
	if colors, ok := builtin[name]; ok {
		return append([]string(nil), colors...), nil
	}

	r.mu.RLock()
	colors, ok := r.extra[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown palette %q", core.ErrInvalidPalette, name)
	}
	return append([]string(nil), colors...), nil
}

// ParseCustom splits a comma-separated hex list ("#8ab4f8,#4caf50") into a
// palette, trimming whitespace and rejecting anything that is not a color.
func ParseCustom(s string) ([]string, error) {
	colors := make([]string, 0, 4)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !validHex(part) {
			return nil, fmt.Errorf("%w: %q is not a hex color", core.ErrInvalidPalette, part)
		}
		colors = append(colors, part)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: custom palette is empty", core.ErrInvalidPalette)
	}
	return colors, nil
}

// ColorFor cycles the palette over group indexes.
func ColorFor(colors []string, i int) string {
	if len(colors) == 0 {
		return ""
	}
	return colors[i%len(colors)]
}

func validHex(s string) bool {
	if len(s) != 7 && len(s) != 4 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
