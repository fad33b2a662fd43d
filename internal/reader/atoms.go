package reader

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/funvibe/yinyang/internal/edn"
	"github.com/shopspring/decimal"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?[0-9]+N?$`)
	floatPattern   = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]*)?([eE][+-]?[0-9]+)?M?$`)
	symbolPattern  = regexp.MustCompile(`^[a-zA-Z*+!_?$%&=<>'#\-][a-zA-Z0-9*+!_?$%&=<>'#\-.]*(/[a-zA-Z0-9*+!_?$%&=<>'#\-.]+)?$`)
)

type atomCandidate struct {
	name  string
	parse func(tok string) (edn.Node, bool)
}

// atomCandidates are tried in order. The literal parsers must precede the
// symbol fallback or nil/true/false would read as symbols.
var atomCandidates = []atomCandidate{
	{"nil", parseNil},
	{"bool", parseBool},
	{"integer", parseInteger},
	{"float", parseFloat},
	{"keyword", parseKeyword},
	{"symbol", parseSymbol},
}

// parseAtom reads one bare token.
func parseAtom(tok string, offset int) (edn.Node, error) {
	for _, c := range atomCandidates {
		if node, ok := c.parse(tok); ok {
			return node, nil
		}
	}
	return nil, regularError(offset, "unrecognized token %q", tok)
}

func parseNil(tok string) (edn.Node, bool) {
	if tok == "nil" {
		return edn.NIL, true
	}
	return nil, false
}

func parseBool(tok string) (edn.Node, bool) {
	switch tok {
	case "true":
		return edn.TRUE, true
	case "false":
		return edn.FALSE, true
	}
	return nil, false
}

func parseInteger(tok string) (edn.Node, bool) {
	if !integerPattern.MatchString(tok) {
		return nil, false
	}
	v, ok := new(big.Int).SetString(strings.TrimSuffix(tok, "N"), 10)
	if !ok {
		return nil, false
	}
	return &edn.Integer{Value: v}, true
}

func parseFloat(tok string) (edn.Node, bool) {
	if !floatPattern.MatchString(tok) {
		return nil, false
	}
	s := strings.TrimPrefix(strings.TrimSuffix(tok, "M"), "+")
	// "1." and "1.e5" are valid EDN but need a digit after the point here.
	if i := strings.IndexByte(s, '.'); i >= 0 && (i == len(s)-1 || s[i+1] == 'e' || s[i+1] == 'E') {
		s = s[:i+1] + "0" + s[i+1:]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return edn.NewFloat(d), true
}

func parseKeyword(tok string) (edn.Node, bool) {
	name, ok := strings.CutPrefix(tok, ":")
	if !ok || !validSymbolName(name) {
		return nil, false
	}
	return edn.NewKeyword(name), true
}

func parseSymbol(tok string) (edn.Node, bool) {
	switch tok {
	case "nil", "true", "false":
		return nil, false
	}
	if !validSymbolName(tok) {
		return nil, false
	}
	return edn.NewSymbol(tok), true
}

func validSymbolName(s string) bool {
	return symbolPattern.MatchString(s) && !strings.HasSuffix(s, ":")
}
