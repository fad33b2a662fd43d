package evaluator

// SpecialForm names one of the forms whose evaluation is built in.
type SpecialForm int

const (
	SpecialQuote SpecialForm = iota + 1
	SpecialDo
	SpecialIf
	SpecialDef
	SpecialLet
	SpecialFn
)

var specialForms = map[string]SpecialForm{
	"quote": SpecialQuote,
	"do":    SpecialDo,
	"if":    SpecialIf,
	"def":   SpecialDef,
	"let":   SpecialLet,
	"fn":    SpecialFn,
}

// LookupSpecialForm resolves a head symbol name. Names that are not special
// forms report false and are applied as ordinary functions.
func LookupSpecialForm(name string) (SpecialForm, bool) {
	f, ok := specialForms[name]
	return f, ok
}

func (f SpecialForm) String() string {
	for name, form := range specialForms {
		if form == f {
			return name
		}
	}
	return "unknown"
}
