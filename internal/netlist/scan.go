// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlist implements a line scanner for netlist text.
//
package netlist

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Netlist keywords.
//
const (
	Wire    = "WIRE"
	Connect = "+"
	In      = "IN"
	Out     = "OUT"
)

// MaxLine is the longest line the scanner accepts, in bytes. Longer lines
// are skipped and reported through Line.Err.
const MaxLine = 1 << 20

// ErrLineTooLong is reported for lines longer than MaxLine.
var ErrLineTooLong = errors.New("line too long")

// A Line is a tokenized netlist line.
//
type Line struct {
	Num    int // 1-based line number
	Tokens []string
	Err    error // set if the line could not be read, Tokens is then nil
}

// Tokenize splits line on white space and upper-cases the tokens. A token
// starting with '#' starts a comment that runs to the end of the line.
//
func Tokenize(line string) []string {
	var toks []string
	for _, f := range strings.Fields(line) {
		if f[0] == '#' {
			break
		}
		toks = append(toks, strings.ToUpper(f))
	}
	return toks
}

// A Scanner reads tokenized lines from a netlist, skipping lines with no
// tokens.
//
type Scanner struct {
	s    *bufio.Scanner
	line Line
	num  int
	skip bool // discarding the rest of an over-long line
	long bool // the last token was an over-long line
}

// NewScanner returns a new Scanner reading from r.
//
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{s: bufio.NewScanner(r)}
	s.s.Buffer(nil, MaxLine)
	s.s.Split(s.split)
	return s
}

// split works like bufio.ScanLines, except that lines that do not fit in
// the buffer are discarded up to their end and returned as a single empty
// token with s.long set.
func (s *Scanner) split(data []byte, atEOF bool) (int, []byte, error) {
	if s.skip {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			s.skip, s.long = false, true
			return i + 1, data[:0], nil
		}
		if atEOF {
			s.skip, s.long = false, true
			return len(data), data[:0], nil
		}
		return len(data), nil, nil
	}
	adv, tok, err := bufio.ScanLines(data, atEOF)
	if adv == 0 && tok == nil && err == nil && len(data) >= MaxLine {
		s.skip = true
		return len(data), nil, nil
	}
	return adv, tok, err
}

// Scan advances to the next line with at least one token, or to the next line
// that could not be read. It returns false at the end of input or on a read
// error.
//
func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		s.num++
		if s.long {
			s.long = false
			s.line = Line{Num: s.num, Err: errors.Wrapf(ErrLineTooLong, "more than %d bytes", MaxLine)}
			return true
		}
		if toks := Tokenize(s.s.Text()); len(toks) > 0 {
			s.line = Line{Num: s.num, Tokens: toks}
			return true
		}
	}
	return false
}

// Line returns the current line.
//
func (s *Scanner) Line() Line { return s.line }

// Err returns the first read error, annotated with the number of the line
// being read.
//
func (s *Scanner) Err() error {
	if err := s.s.Err(); err != nil {
		return errors.Wrapf(err, "line %d", s.num+1)
	}
	return nil
}
