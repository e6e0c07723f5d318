package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe helpers for lengths read from the preset catalog.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Paper sizes in points.
var pagePresets = map[string]PageSize{
	"A4":     {Name: "A4", Width: 595.28, Height: 841.89},
	"A5":     {Name: "A5", Width: 419.53, Height: 595.28},
	"LETTER": {Name: "Letter", Width: 612, Height: 792},
	"LEGAL":  {Name: "Legal", Width: 612, Height: 1008},
}

// LookupPageSize returns the paper size registered under name (case-insensitive).
func LookupPageSize(name string) (PageSize, bool) {
	size, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	return size, ok
}

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPT converts the length to points. Unit-less values are taken as points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 { return l.ToPT() * PtToMm }

// ParseLength parses strings such as "60pt", "21mm", "1.5cm", "0.5in" or "12".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("空的长度值")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseFactor parses a line-height factor such as "1.5x" or "1.5".
func ParseFactor(value string) (float64, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "x")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("无法解析倍数 %q", value)
	}
	return f, nil
}

// lineAdvance returns the distance between two baselines for a font size and factor.
func lineAdvance(size, factor float64) float64 {
	if factor <= 0 {
		factor = defaultLineFactor
	}
	return size * factor
}
