// Package prettyprinter lays out EDN data across lines. Forms that fit in the
// line width print exactly as Inspect does; larger collections put one
// element (or map entry) per line, aligned under the first.
package prettyprinter

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/yinyang/internal/edn"
)

// DefaultLineWidth is used by Print.
const DefaultLineWidth = 72

type Printer struct {
	buf       strings.Builder
	lineWidth int // max line width (0 = unlimited)
	column    int // current column position
}

func NewPrinter() *Printer {
	return &Printer{lineWidth: DefaultLineWidth}
}

func NewPrinterWithWidth(width int) *Printer {
	return &Printer{lineWidth: width}
}

// Print lays out node with the default width.
func Print(node edn.Node) string {
	p := NewPrinter()
	p.Print(node)
	return p.String()
}

func (p *Printer) String() string {
	return p.buf.String()
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
	if idx := strings.LastIndex(s, "\n"); idx != -1 {
		p.column = utf8.RuneCountInString(s[idx+1:])
	} else {
		p.column += utf8.RuneCountInString(s)
	}
}

// newlineAt starts a new line and pads it to col.
func (p *Printer) newlineAt(col int) {
	p.write("\n" + strings.Repeat(" ", col))
}

func (p *Printer) fits(s string) bool {
	return p.lineWidth <= 0 || p.column+utf8.RuneCountInString(s) <= p.lineWidth
}

// Print appends node at the current column.
func (p *Printer) Print(node edn.Node) {
	flat := node.Inspect()
	if p.fits(flat) {
		p.write(flat)
		return
	}
	switch n := node.(type) {
	case *edn.List:
		p.printSeq("(", ")", n.All())
	case *edn.Vector:
		p.printSeq("[", "]", n.All())
	case *edn.Set:
		p.printSeq("#{", "}", n.All())
	case *edn.Map:
		p.printMap(n)
	default:
		// Scalars never break.
		p.write(flat)
	}
}

func (p *Printer) printSeq(open, close string, items iter.Seq[edn.Node]) {
	p.write(open)
	col := p.column
	first := true
	for item := range items {
		if !first {
			p.newlineAt(col)
		}
		first = false
		p.Print(item)
	}
	p.write(close)
}

func (p *Printer) printMap(m *edn.Map) {
	p.write("{")
	col := p.column
	first := true
	for k, v := range m.All() {
		if !first {
			p.write(",")
			p.newlineAt(col)
		}
		first = false
		p.Print(k)
		p.write(" ")
		p.Print(v)
	}
	p.write("}")
}
