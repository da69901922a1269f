// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Open reads a STEP physical file (ISO 10303-21) and returns its entity
// graph. The header's FILE_SCHEMA populates Graph.Schema; every DATA
// section record becomes an entity.
func Open(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	g, err := Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return g, nil
}

// Decode parses STEP file text into a graph. Malformed individual records
// are skipped; a file without any parsable instance record is an error.
func Decode(src string) (*Graph, error) {
	g := NewGraph("")

	records := splitRecords(stripComments(src))
	parsed := 0

	for _, rec := range records {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}

		if strings.HasPrefix(rec, "FILE_SCHEMA") {
			g.Schema = firstString(rec)
			continue
		}
		if rec[0] != '#' {
			// Section keywords and header records.
			continue
		}

		id, typ, args, err := parseInstance(rec)
		if err != nil {
			continue
		}
		g.Add(id, typ, args...)
		parsed++
	}

	if parsed == 0 {
		return nil, fmt.Errorf("no instance records found")
	}
	return g, nil
}

// stripComments removes /* ... */ comments outside string literals.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if c == '\'' {
				inString = false
			}
			continue
		}
		switch {
		case c == '\'':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += 2 + end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// splitRecords splits on ';' terminators outside string literals, so
// records may span lines and strings may contain semicolons.
func splitRecords(s string) []string {
	var records []string
	var b strings.Builder

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if c == '\'' {
				inString = false
			}
			continue
		}
		switch c {
		case '\'':
			inString = true
			b.WriteByte(c)
		case ';':
			records = append(records, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if strings.TrimSpace(b.String()) != "" {
		records = append(records, b.String())
	}
	return records
}

// firstString extracts the first quoted string in a header record, e.g.
// the schema name from FILE_SCHEMA(('IFC4')).
func firstString(rec string) string {
	start := strings.IndexByte(rec, '\'')
	if start < 0 {
		return ""
	}
	sc := &scanner{s: rec, i: start}
	v, err := sc.value()
	if err != nil {
		return ""
	}
	return Str(v)
}

// parseInstance parses "#12=IFCWALL('guid',$,...)" into its parts.
func parseInstance(rec string) (int64, string, []any, error) {
	eq := strings.IndexByte(rec, '=')
	if eq < 0 {
		return 0, "", nil, fmt.Errorf("no '=' in record")
	}

	idText := strings.TrimSpace(rec[1:eq])
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return 0, "", nil, fmt.Errorf("instance id %q: %w", idText, err)
	}

	rest := strings.TrimSpace(rec[eq+1:])
	open := strings.IndexByte(rest, '(')
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return 0, "", nil, fmt.Errorf("record #%d: malformed argument list", id)
	}

	typ := strings.TrimSpace(rest[:open])
	sc := &scanner{s: rest, i: open}
	args, err := sc.list()
	if err != nil {
		return 0, "", nil, fmt.Errorf("record #%d: %w", id, err)
	}
	return id, typ, args, nil
}

// scanner is a recursive-descent reader over one record's argument text.
type scanner struct {
	s string
	i int
}

func (sc *scanner) skipSpace() {
	for sc.i < len(sc.s) {
		switch sc.s[sc.i] {
		case ' ', '\t', '\r', '\n':
			sc.i++
		default:
			return
		}
	}
}

func (sc *scanner) peek() byte {
	if sc.i >= len(sc.s) {
		return 0
	}
	return sc.s[sc.i]
}

// list parses "( v, v, ... )" starting at the opening parenthesis.
func (sc *scanner) list() ([]any, error) {
	if sc.peek() != '(' {
		return nil, fmt.Errorf("expected '(' at offset %d", sc.i)
	}
	sc.i++

	var items []any
	sc.skipSpace()
	if sc.peek() == ')' {
		sc.i++
		return items, nil
	}

	for {
		v, err := sc.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		sc.skipSpace()
		switch sc.peek() {
		case ',':
			sc.i++
		case ')':
			sc.i++
			return items, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d", sc.i)
		}
	}
}

// value parses one attribute value: $ or * (absent), #n (reference),
// .X. (enum/boolean), 'text', a number, a nested list, or a typed value
// like IFCVOLUMEMEASURE(5.25), which unwraps to its inner value.
func (sc *scanner) value() (any, error) {
	sc.skipSpace()
	if sc.i >= len(sc.s) {
		return nil, fmt.Errorf("unexpected end of record")
	}

	switch c := sc.s[sc.i]; {
	case c == '$' || c == '*':
		sc.i++
		return nil, nil

	case c == '#':
		sc.i++
		start := sc.i
		for sc.i < len(sc.s) && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '9' {
			sc.i++
		}
		id, err := strconv.ParseInt(sc.s[start:sc.i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("reference at offset %d: %w", start, err)
		}
		return Ref(id), nil

	case c == '.':
		sc.i++
		end := strings.IndexByte(sc.s[sc.i:], '.')
		if end < 0 {
			return nil, fmt.Errorf("unterminated enum at offset %d", sc.i)
		}
		lit := sc.s[sc.i : sc.i+end]
		sc.i += end + 1
		switch lit {
		case "T":
			return true, nil
		case "F":
			return false, nil
		case "U":
			return nil, nil
		default:
			return Enum(lit), nil
		}

	case c == '\'':
		return sc.text()

	case c == '(':
		return sc.list()

	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return sc.number()

	default:
		// Typed value: KEYWORD(inner).
		start := sc.i
		for sc.i < len(sc.s) && isKeywordByte(sc.s[sc.i]) {
			sc.i++
		}
		if sc.i == start {
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, sc.i)
		}
		sc.skipSpace()
		inner, err := sc.list()
		if err != nil {
			return nil, err
		}
		if len(inner) == 0 {
			return nil, nil
		}
		return inner[0], nil
	}
}

// text parses a quoted string; '' escapes a single quote.
func (sc *scanner) text() (any, error) {
	sc.i++ // opening quote
	var b strings.Builder
	for sc.i < len(sc.s) {
		c := sc.s[sc.i]
		if c == '\'' {
			if sc.i+1 < len(sc.s) && sc.s[sc.i+1] == '\'' {
				b.WriteByte('\'')
				sc.i += 2
				continue
			}
			sc.i++
			return b.String(), nil
		}
		b.WriteByte(c)
		sc.i++
	}
	return nil, fmt.Errorf("unterminated string")
}

// number parses an integer or real; reals carry '.', 'e', or 'E'.
func (sc *scanner) number() (any, error) {
	start := sc.i
	isFloat := false
	for sc.i < len(sc.s) {
		c := sc.s[sc.i]
		if c >= '0' && c <= '9' || c == '+' || c == '-' {
			sc.i++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			sc.i++
			continue
		}
		break
	}
	lit := sc.s[start:sc.i]
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", lit, err)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("number %q: %w", lit, err)
	}
	return n, nil
}

func isKeywordByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
