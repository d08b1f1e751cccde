package pixelate

import (
	"fmt"
	"image"
	"math/rand/v2"
	"strconv"
	"strings"
)

type ModifierKind int

const (
	ModNone ModifierKind = iota
	ModRandomInset
	ModGridGapX
	ModGridGapY
)

var modifierNames = map[ModifierKind]string{
	ModNone:        "none",
	ModRandomInset: "random",
	ModGridGapX:    "gridx",
	ModGridGapY:    "gridy",
}

// Modifier changes the footprint a block is drawn into. Amount is the maximum
// inset for ModRandomInset and the gap for the grid kinds.
type Modifier struct {
	Kind   ModifierKind
	Amount int
}

func None() Modifier {
	return Modifier{}
}

func RandomInset(maxOffset int) Modifier {
	return Modifier{Kind: ModRandomInset, Amount: maxOffset}
}

func GridGapX(gap int) Modifier {
	return Modifier{Kind: ModGridGapX, Amount: gap}
}

func GridGapY(gap int) Modifier {
	return Modifier{Kind: ModGridGapY, Amount: gap}
}

// ParseModifier reads the text form: none, random:N, gridx:N or gridy:N.
func ParseModifier(s string) (Modifier, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	if name == "" || name == "none" {
		if hasArg {
			return Modifier{}, fmt.Errorf("%w: modifier none takes no argument", ErrInvalidOptions)
		}
		return None(), nil
	}

	var m Modifier
	switch name {
	case "random":
		m.Kind = ModRandomInset
	case "gridx":
		m.Kind = ModGridGapX
	case "gridy":
		m.Kind = ModGridGapY
	default:
		return Modifier{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidOptions, name)
	}

	if !hasArg {
		return Modifier{}, fmt.Errorf("%w: modifier %s needs an amount", ErrInvalidOptions, name)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return Modifier{}, fmt.Errorf("%w: modifier %s amount %q: %w", ErrInvalidOptions, name, arg, err)
	}
	m.Amount = n

	return m, m.Validate()
}

func (m Modifier) Validate() error {
	if _, ok := modifierNames[m.Kind]; !ok {
		return fmt.Errorf("%w: unknown modifier kind %d", ErrInvalidOptions, m.Kind)
	}
	if m.Kind != ModNone && m.Amount < 1 {
		return fmt.Errorf("%w: modifier %s amount must be positive, got %d", ErrInvalidOptions, m, m.Amount)
	}
	return nil
}

func (m Modifier) String() string {
	name, ok := modifierNames[m.Kind]
	if !ok {
		return fmt.Sprintf("modifier(%d)", m.Kind)
	}
	if m.Kind == ModNone {
		return name
	}
	return fmt.Sprintf("%s:%d", name, m.Amount)
}

// Footprint returns the rectangle a block drawn at r should occupy. The random
// inset takes exactly one draw from rnd per call, or from the global source
// when rnd is nil.
func (m Modifier) Footprint(r image.Rectangle, rnd *rand.Rand) image.Rectangle {
	switch m.Kind {
	case ModRandomInset:
		off := 1 + intN(rnd, m.Amount)
		r.Min = r.Min.Add(image.Pt(off, off))
		r.Max = r.Max.Sub(image.Pt(off, off))
	case ModGridGapX:
		r.Min.X += m.Amount
		r.Max.X -= m.Amount
	case ModGridGapY:
		r.Min.Y += m.Amount
		r.Max.Y -= m.Amount
	}

	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}

func intN(rnd *rand.Rand, n int) int {
	if rnd == nil {
		return rand.IntN(n)
	}
	return rnd.IntN(n)
}
