package expression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned when an expression cannot be parsed.
var ErrSyntax = errors.New("expression syntax error")

// Evaluate interprets the subset of the ffmpeg expression grammar emitted by
// this package: numeric literals, PTS, TB, + - * /, parentheses, and the
// functions if(cond, then, else) and lt(a, b). Argument separators may be
// escaped (\,) or bare.
func Evaluate(expr string, pts, tb float64) (float64, error) {
	p := &parser{src: expr, pts: pts, tb: tb}
	v, err := p.sum()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return v, nil
}

type parser struct {
	src string
	pos int
	pts float64
	tb  float64
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) separator() error {
	if strings.HasPrefix(p.src[p.pos:], escapedComma) {
		p.pos += len(escapedComma)
		return nil
	}
	return p.expect(',')
}

func (p *parser) sum() (float64, error) {
	left, err := p.product()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.product()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.product()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) product() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.sum()
		if err != nil {
			return 0, err
		}
		return v, p.expect(')')
	case c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z':
		return p.identifier()
	case c == 0:
		return 0, p.errorf("unexpected end of expression")
	default:
		return 0, p.errorf("unexpected %q", c)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("bad number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *parser) identifier() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	name := p.src[start:p.pos]
	switch name {
	case "PTS":
		return p.pts, nil
	case "TB":
		return p.tb, nil
	case "if":
		args, err := p.arguments(3)
		if err != nil {
			return 0, err
		}
		if args[0] != 0 {
			return args[1], nil
		}
		return args[2], nil
	case "lt":
		args, err := p.arguments(2)
		if err != nil {
			return 0, err
		}
		if args[0] < args[1] {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, p.errorf("unknown identifier %q", name)
	}
}

// arguments parses a parenthesised argument list. All arguments are
// evaluated eagerly; the grammar has no side effects.
func (p *parser) arguments(n int) ([]float64, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	args := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := p.separator(); err != nil {
				return nil, err
			}
		}
		v, err := p.sum()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, p.expect(')')
}
