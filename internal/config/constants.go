package config

// Version is the release reported by `yinyang version`.
const Version = "0.3.0"

const SourceFileExt = ".clj"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".clj", ".edn", ".yy"}

// Config file names searched for by FindConfig, in order.
var ConfigFileNames = []string{"yinyang.yaml", "yinyang.yml"}

// REPL defaults
const (
	DefaultPrompt             = "user=> "
	DefaultContinuationPrompt = "...   "
	DefaultHistoryFile        = ".yinyang_history"
	DefaultLogLevel           = "warn"
	QuitCommand               = ":quit"
)

// DivisionPrecision is the number of decimal places kept when a division is
// not exact.
const DivisionPrecision = 32

// Native function names
const (
	AddFuncName        = "+"
	SubFuncName        = "-"
	MulFuncName        = "*"
	DivFuncName        = "/"
	EqualFuncName      = "="
	LessFuncName       = "<"
	LessEqualFuncName  = "<="
	GreaterFuncName    = ">"
	GreaterEqFuncName  = ">="
	PrnFuncName        = "prn"
	PrintFuncName      = "print"
	PrintlnFuncName    = "println"
	PprintFuncName     = "pprint"
	ReadStringFuncName = "read-string"
	EvalFuncName       = "eval"
	SlurpFuncName      = "slurp"
)
