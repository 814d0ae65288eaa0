package expression

import (
	"strconv"
	"strings"

	"jumpcut/internal/timewarp"
)

// DefaultPrecision is the number of decimal places used for time literals.
const DefaultPrecision = 3

// Options controls literal formatting.
type Options struct {
	// Precision is the number of decimal places kept for time literals.
	// Zero selects DefaultPrecision.
	Precision int
}

func (o Options) precision() int {
	if o.Precision <= 0 {
		return DefaultPrecision
	}
	return o.Precision
}

// escapedComma separates function arguments; ffmpeg reserves bare commas for
// the filter list.
const escapedComma = `\,`

type formatter struct {
	precision int
	base      float64
}

func (f formatter) time(v float64) string {
	s := strconv.FormatFloat(v, 'f', f.precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func (f formatter) speed(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// linear renders OUT/TB+(PTS-START/TB)*SPEED with START relative to the base.
func (f formatter) linear(seg timewarp.Segment) string {
	var b strings.Builder
	b.WriteString(f.time(seg.OutputStart))
	b.WriteString("/TB+(PTS-")
	b.WriteString(f.time(seg.InputStart - f.base))
	b.WriteString("/TB)*")
	b.WriteString(f.speed(seg.Speed))
	return b.String()
}

// branchOpen renders if(lt(PTS\,END/TB)\,LINEAR\, leaving the else argument
// and closing parenthesis to the caller.
func (f formatter) branchOpen(seg timewarp.Segment) string {
	var b strings.Builder
	b.WriteString("if(lt(PTS")
	b.WriteString(escapedComma)
	b.WriteString(f.time(seg.InputEnd - f.base))
	b.WriteString("/TB)")
	b.WriteString(escapedComma)
	b.WriteString(f.linear(seg))
	b.WriteString(escapedComma)
	return b.String()
}

// Depth returns the maximum parenthesis nesting of expr.
func Depth(expr string) int {
	depth, deepest := 0, 0
	for _, r := range expr {
		switch r {
		case '(':
			depth++
			deepest = max(deepest, depth)
		case ')':
			depth--
		}
	}
	return deepest
}
