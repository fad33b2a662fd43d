package builtins

import (
	"math/big"

	"github.com/funvibe/yinyang/internal/config"
	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/shopspring/decimal"
)

// number is an Integer or Float operand. Arithmetic stays in integers until a
// Float appears, then everything is done in exact decimals.
type number struct {
	i     *big.Int
	d     decimal.Decimal
	isInt bool
}

func toNumber(name string, v evaluator.Value) (number, error) {
	if d, ok := v.(*evaluator.EDN); ok {
		switch n := d.Node.(type) {
		case *edn.Integer:
			return number{i: n.Value, isInt: true}, nil
		case *edn.Float:
			return number{d: n.Value}, nil
		}
	}
	return number{}, evaluator.NewTypeError(name, "numbers", v)
}

func (n number) toDecimal() decimal.Decimal {
	if n.isInt {
		return decimal.NewFromBigInt(n.i, 0)
	}
	return n.d
}

func (n number) isZero() bool {
	if n.isInt {
		return n.i.Sign() == 0
	}
	return n.d.IsZero()
}

func (n number) value() evaluator.Value {
	if n.isInt {
		return wrap(&edn.Integer{Value: n.i})
	}
	return wrap(edn.NewFloat(n.d))
}

func intNumber(v *big.Int) number { return number{i: v, isInt: true} }

func cmpNumbers(a, b number) int {
	if a.isInt && b.isInt {
		return a.i.Cmp(b.i)
	}
	return a.toDecimal().Cmp(b.toDecimal())
}

func addNumbers(a, b number) number {
	if a.isInt && b.isInt {
		return intNumber(new(big.Int).Add(a.i, b.i))
	}
	return number{d: a.toDecimal().Add(b.toDecimal())}
}

func subNumbers(a, b number) number {
	if a.isInt && b.isInt {
		return intNumber(new(big.Int).Sub(a.i, b.i))
	}
	return number{d: a.toDecimal().Sub(b.toDecimal())}
}

func mulNumbers(a, b number) number {
	if a.isInt && b.isInt {
		return intNumber(new(big.Int).Mul(a.i, b.i))
	}
	return number{d: a.toDecimal().Mul(b.toDecimal())}
}

// divNumbers keeps integer results when the division is exact and otherwise
// rounds to config.DivisionPrecision decimal places.
func divNumbers(a, b number) (number, error) {
	if b.isZero() {
		return number{}, evaluator.NewError(evaluator.ErrArithmetic, "Divide by zero")
	}
	if a.isInt && b.isInt {
		q, r := new(big.Int).QuoRem(a.i, b.i, new(big.Int))
		if r.Sign() == 0 {
			return intNumber(q), nil
		}
	}
	return number{d: a.toDecimal().DivRound(b.toDecimal(), config.DivisionPrecision)}, nil
}

func NumericBuiltins() map[string]evaluator.NativeFunc {
	return map[string]evaluator.NativeFunc{
		config.AddFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			return fold(config.AddFuncName, args, intNumber(big.NewInt(0)), addNumbers)
		},
		config.MulFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			return fold(config.MulFuncName, args, intNumber(big.NewInt(1)), mulNumbers)
		},
		config.SubFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			if err := checkArity(config.SubFuncName, args, 1, -1); err != nil {
				return nil, err
			}
			if len(args) == 1 {
				return fold(config.SubFuncName, args, intNumber(big.NewInt(0)), subNumbers)
			}
			first, err := toNumber(config.SubFuncName, args[0])
			if err != nil {
				return nil, err
			}
			return fold(config.SubFuncName, args[1:], first, subNumbers)
		},
		config.DivFuncName: divide,

		config.EqualFuncName: func(args []evaluator.Value) (evaluator.Value, error) {
			if err := checkArity(config.EqualFuncName, args, 1, -1); err != nil {
				return nil, err
			}
			for i := 1; i < len(args); i++ {
				if !evaluator.ValuesEqual(args[i-1], args[i]) {
					return wrap(edn.FALSE), nil
				}
			}
			return wrap(edn.TRUE), nil
		},
		config.LessFuncName:      compareChain(config.LessFuncName, func(c int) bool { return c < 0 }),
		config.LessEqualFuncName: compareChain(config.LessEqualFuncName, func(c int) bool { return c <= 0 }),
		config.GreaterFuncName:   compareChain(config.GreaterFuncName, func(c int) bool { return c > 0 }),
		config.GreaterEqFuncName: compareChain(config.GreaterEqFuncName, func(c int) bool { return c >= 0 }),
	}
}

func fold(name string, args []evaluator.Value, acc number, op func(a, b number) number) (evaluator.Value, error) {
	for _, arg := range args {
		n, err := toNumber(name, arg)
		if err != nil {
			return nil, err
		}
		acc = op(acc, n)
	}
	return acc.value(), nil
}

func divide(args []evaluator.Value) (evaluator.Value, error) {
	name := config.DivFuncName
	if err := checkArity(name, args, 1, -1); err != nil {
		return nil, err
	}
	nums := make([]number, len(args))
	for i, arg := range args {
		n, err := toNumber(name, arg)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	if len(nums) == 1 {
		nums = append([]number{intNumber(big.NewInt(1))}, nums...)
	}
	acc := nums[0]
	for _, n := range nums[1:] {
		var err error
		if acc, err = divNumbers(acc, n); err != nil {
			return nil, err
		}
	}
	return acc.value(), nil
}

func compareChain(name string, ok func(c int) bool) evaluator.NativeFunc {
	return func(args []evaluator.Value) (evaluator.Value, error) {
		if err := checkArity(name, args, 1, -1); err != nil {
			return nil, err
		}
		nums := make([]number, len(args))
		for i, arg := range args {
			n, err := toNumber(name, arg)
			if err != nil {
				return nil, err
			}
			nums[i] = n
		}
		for i := 1; i < len(nums); i++ {
			if !ok(cmpNumbers(nums[i-1], nums[i])) {
				return wrap(edn.FALSE), nil
			}
		}
		return wrap(edn.TRUE), nil
	}
}
