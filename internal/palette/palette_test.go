package palette

import (
	"errors"
	"testing"

	"raincloud/domain/core"
)

func TestResolve_BuiltinThemes(t *testing.T) {
	r := NewRegistry()

	aurora, err := r.Resolve(Aurora, "")
	if err != nil {
		t.Fatalf("resolve aurora: %v", err)
	}
	if len(aurora) != 8 || aurora[0] != "#88CCEE" {
		t.Fatalf("unexpected aurora palette: %v", aurora)
	}

	mono, err := r.Resolve(Monochrome, "")
	if err != nil {
		t.Fatalf("resolve monochrome: %v", err)
	}
	if len(mono) != 7 {
		t.Fatalf("monochrome carries 7 shades, got %d", len(mono))
	}
}

func TestResolve_UnknownName(t *testing.T) {
	_, err := NewRegistry().Resolve("Vaporwave", "")
	if !errors.Is(err, core.ErrInvalidPalette) {
		t.Fatalf("expected invalid-palette error, got %v", err)
	}
}

func TestResolve_CustomList(t *testing.T) {
	colors, err := NewRegistry().Resolve(Custom, " #8ab4f8, #4caf50 ,#fff ")
	if err != nil {
		t.Fatalf("resolve custom: %v", err)
	}
	if len(colors) != 3 || colors[0] != "#8ab4f8" || colors[2] != "#fff" {
		t.Fatalf("unexpected custom palette: %v", colors)
	}
}

func TestResolve_CustomRejectsJunk(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Resolve(Custom, "#8ab4f8,red"); !errors.Is(err, core.ErrInvalidPalette) {
		t.Fatalf("expected invalid-palette error for a named color, got %v", err)
	}
	if _, err := r.Resolve(Custom, " , ,"); !errors.Is(err, core.ErrInvalidPalette) {
		t.Fatalf("expected invalid-palette error for an empty list, got %v", err)
	}
}

func TestRegister_AndNamesOrder(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("Heatmap", []string{"#ff0000", "#00ff00"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := r.Register(Aurora, []string{"#ff0000"}); !errors.Is(err, core.ErrInvalidPalette) {
		t.Fatalf("builtin names must be reserved, got %v", err)
	}
	if err := r.Register("Bad", []string{"#nothex"}); !errors.Is(err, core.ErrInvalidPalette) {
		t.Fatalf("expected invalid-palette error for bad hex, got %v", err)
	}

	names := r.Names()
	if names[0] != Aurora || names[len(names)-1] != Custom {
		t.Fatalf("expected builtins first and Custom last, got %v", names)
	}
	found := false
	for _, n := range names {
		if n == "Heatmap" {
			found = true
		}
	}
	if !found {
		t.Fatalf("registered palette missing from %v", names)
	}

	colors, err := r.Resolve("Heatmap", "")
	if err != nil || len(colors) != 2 {
		t.Fatalf("resolve registered palette: %v %v", colors, err)
	}
}

func TestColorFor_CyclesPalette(t *testing.T) {
	colors := []string{"#111111", "#222222", "#333333"}

	if got := ColorFor(colors, 0); got != "#111111" {
		t.Fatalf("index 0: %s", got)
	}
	if got := ColorFor(colors, 4); got != "#222222" {
		t.Fatalf("index 4 should wrap to the second color, got %s", got)
	}
	if got := ColorFor(nil, 2); got != "" {
		t.Fatalf("empty palette should give empty color, got %q", got)
	}
}
