// Package reader turns EDN text into edn.Node trees.
package reader

import (
	"strings"
	"unicode"

	"github.com/funvibe/yinyang/internal/edn"
)

// Read parses the first form of text. Blank input reads as nil. The whole
// input must still be well formed: a stray delimiter after the first form is
// reported rather than ignored.
func Read(text string) (edn.Node, error) {
	forms, err := ReadAll(text)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return edn.NIL, nil
	}
	return forms[0], nil
}

// ReadAll parses every top-level form in text.
func ReadAll(text string) ([]edn.Node, error) {
	r := &Reader{src: strings.TrimSpace(text)}
	var forms []edn.Node
	for {
		r.skipSpace()
		if r.eof() {
			return forms, nil
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
}

// Reader is a recursive-descent parser over one source string.
type Reader struct {
	src string
	pos int
}

// collectionConfig describes one bracketed collection kind.
type collectionConfig struct {
	name      string
	opening   string
	closing   byte
	construct func(items []edn.Node) (edn.Node, error)
}

var collections = []collectionConfig{
	{
		name: "list", opening: "(", closing: ')',
		construct: func(items []edn.Node) (edn.Node, error) { return edn.NewList(items...), nil },
	},
	{
		name: "vector", opening: "[", closing: ']',
		construct: func(items []edn.Node) (edn.Node, error) { return edn.NewVector(items...), nil },
	},
	{
		name: "map", opening: "{", closing: '}',
		construct: func(items []edn.Node) (edn.Node, error) { return edn.NewMap(items...) },
	},
	{
		name: "set", opening: "#{", closing: '}',
		construct: func(items []edn.Node) (edn.Node, error) { return edn.NewSet(items...), nil },
	},
}

func (r *Reader) eof() bool {
	return r.pos >= len(r.src)
}

func (r *Reader) peek() byte {
	return r.src[r.pos]
}

// skipSpace skips whitespace, commas and ; line comments.
func (r *Reader) skipSpace() {
	for !r.eof() {
		c := r.peek()
		switch {
		case c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			r.pos++
		case c == ';':
			for !r.eof() && r.peek() != '\n' {
				r.pos++
			}
		case c >= 0x80 && unicode.IsSpace(r.runeAt()):
			r.pos += len(string(r.runeAt()))
		default:
			return
		}
	}
}

func (r *Reader) runeAt() rune {
	for _, c := range r.src[r.pos:] {
		return c
	}
	return 0
}

func isClosing(c byte) bool {
	return c == ')' || c == ']' || c == '}'
}

// isDelimiter reports whether c ends a bare token.
func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v', ',', ';', '"', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// readForm reads one form starting at the next non-space character. The
// caller guarantees that one exists.
func (r *Reader) readForm() (edn.Node, error) {
	start := r.pos
	c := r.peek()

	if c == '\'' {
		return r.readQuote()
	}
	if c == '"' {
		return r.readString()
	}
	if isClosing(c) {
		return nil, nestingError(start, "unmatched delimiter '%c'", c)
	}
	for i := range collections {
		if strings.HasPrefix(r.src[r.pos:], collections[i].opening) {
			return r.readCollection(&collections[i])
		}
	}

	for !r.eof() && !isDelimiter(r.peek()) {
		r.pos++
	}
	return parseAtom(r.src[start:r.pos], start)
}

// readQuote reads 'x as (quote x). Only a quote at the start of a form is
// sugar; inside a token or a string it is ordinary text.
func (r *Reader) readQuote() (edn.Node, error) {
	start := r.pos
	r.pos++
	r.skipSpace()
	if r.eof() {
		return nil, incompleteError(start, "quote at end of input")
	}
	if isClosing(r.peek()) {
		return nil, regularError(start, "quote must be followed by a form")
	}
	form, err := r.readForm()
	if err != nil {
		return nil, err
	}
	return edn.NewList(edn.NewSymbol("quote"), form), nil
}

func (r *Reader) readCollection(cfg *collectionConfig) (edn.Node, error) {
	start := r.pos
	r.pos += len(cfg.opening)

	var items []edn.Node
	for {
		r.skipSpace()
		if r.eof() {
			return nil, incompleteError(start, "unclosed %s: expected '%c'", cfg.name, cfg.closing)
		}
		c := r.peek()
		if isClosing(c) {
			if c != cfg.closing {
				return nil, nestingError(r.pos, "mismatched delimiter: %s opened at offset %d expects '%c', found '%c'", cfg.name, start, cfg.closing, c)
			}
			r.pos++
			node, err := cfg.construct(items)
			if err != nil {
				return nil, regularError(start, "%v", err)
			}
			return node, nil
		}
		item, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

// readString consumes a string literal. Brackets and quotes inside it are
// plain text; escapes \" \\ \n \t \r are decoded.
func (r *Reader) readString() (edn.Node, error) {
	start := r.pos
	r.pos++

	var out strings.Builder
	for !r.eof() {
		c := r.peek()
		r.pos++
		switch c {
		case '"':
			return edn.NewString(out.String()), nil
		case '\\':
			if r.eof() {
				return nil, incompleteError(start, "unterminated string")
			}
			esc := r.peek()
			r.pos++
			switch esc {
			case '"', '\\':
				out.WriteByte(esc)
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			default:
				return nil, regularError(r.pos-2, "unsupported escape sequence \\%c", esc)
			}
		default:
			out.WriteByte(c)
		}
	}
	return nil, incompleteError(start, "unterminated string")
}
