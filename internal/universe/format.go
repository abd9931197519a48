// Package universe reads and writes initial-conditions files.
//
// A file holds whitespace-separated tokens: the number of bodies N, the
// universe radius, then N rows of
//
//	x y vx vy mass name
//
// Anything after the last row is ignored, so files may carry trailing notes.
package universe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/nbody/internal/physics"
)

var ErrTruncated = errors.New("universe: unexpected end of input")

// ParseError reports a malformed token.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("universe: line %d: %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// File is a parsed initial-conditions file.
type File struct {
	Radius float64
	Bodies []*physics.Body
}

type tokenizer struct {
	sc   *bufio.Scanner
	line int
	buf  []string
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{sc: bufio.NewScanner(r)}
}

func (t *tokenizer) next(field string) (string, int, error) {
	for len(t.buf) == 0 {
		if !t.sc.Scan() {
			if err := t.sc.Err(); err != nil {
				return "", t.line, err
			}
			return "", t.line, fmt.Errorf("%w reading %s", ErrTruncated, field)
		}
		t.line++
		t.buf = strings.Fields(t.sc.Text())
	}
	tok := t.buf[0]
	t.buf = t.buf[1:]
	return tok, t.line, nil
}

func (t *tokenizer) float(field string) (float64, error) {
	tok, line, err := t.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Field: field, Err: err}
	}
	return v, nil
}

// Read parses a universe from r.
func Read(r io.Reader) (*File, error) {
	t := newTokenizer(r)

	tok, line, err := t.next("body count")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, &ParseError{Line: line, Field: "body count", Err: err}
	}
	if n < 0 {
		return nil, &ParseError{Line: line, Field: "body count", Err: fmt.Errorf("negative count %d", n)}
	}

	radius, err := t.float("radius")
	if err != nil {
		return nil, err
	}

	f := &File{Radius: radius, Bodies: make([]*physics.Body, 0, n)}
	for i := 0; i < n; i++ {
		var vals [5]float64
		for j, field := range [...]string{"x", "y", "vx", "vy", "mass"} {
			v, err := t.float(fmt.Sprintf("body %d %s", i, field))
			if err != nil {
				return nil, err
			}
			vals[j] = v
		}
		name, _, err := t.next(fmt.Sprintf("body %d name", i))
		if err != nil {
			return nil, err
		}
		f.Bodies = append(f.Bodies, physics.NewBody(vals[0], vals[1], vals[2], vals[3], vals[4], name))
	}

	return f, nil
}

func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Read(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Write emits bodies in the same format Read accepts. Values are rounded to
// five significant digits, so the output is a summary: reading it back does
// not reproduce the exact state.
func Write(w io.Writer, radius float64, bodies []*physics.Body) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(bodies))
	fmt.Fprintf(bw, "%.2e\n", radius)
	for _, b := range bodies {
		fmt.Fprintf(bw, "%11.4e %11.4e %11.4e %11.4e %11.4e %12s\n",
			b.X(), b.Y(), b.VX(), b.VY(), b.Mass(), b.Name())
	}
	return bw.Flush()
}

func WriteFile(path string, radius float64, bodies []*physics.Body) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, radius, bodies); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
