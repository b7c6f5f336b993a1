package rootfind

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"
)

// Func is an abstract function f(x).
type Func interface {
	Eval(x float64) (float64, error)
}

// FuncOf adapts a plain Go function to Func.
type FuncOf func(x float64) float64

func (f FuncOf) Eval(x float64) (float64, error) {
	return f(x), nil
}

// evalFunc implements Func on top of govaluate
type evalFunc struct {
	src  string
	expr *govaluate.EvaluableExpression
}

var functions = map[string]govaluate.ExpressionFunction{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"ln":    unary(math.Log),
	"log10": unary(math.Log10),
	"log2":  unary(math.Log2),
	"sqrt":  unary(math.Sqrt),
	"cbrt":  unary(math.Cbrt),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"pow":   binary(math.Pow),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// NewEvalFunc compiles the expression of x into a Func.
func NewEvalFunc(expr string) (Func, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return nil, ErrNoFunction
	}

	normalized, err := normalize(src)
	if err != nil {
		return nil, err
	}

	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(normalized, functions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpression, err)
	}

	for _, v := range parsed.Vars() {
		if _, ok := constants[v]; v != "x" && !ok {
			return nil, fmt.Errorf("%w: unknown variable %q", ErrExpression, v)
		}
	}

	return &evalFunc{src: src, expr: parsed}, nil
}

func (f *evalFunc) Eval(x float64) (float64, error) {
	v, err := f.expr.Eval(point(x))
	if err != nil {
		return math.NaN(), err
	}

	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return math.NaN(), fmt.Errorf("expression did not return a number: %T", v)
	}
}

func (f *evalFunc) String() string {
	return f.src
}

// point binds x for a single evaluation; it keeps Eval free of shared state.
type point float64

func (p point) Get(name string) (interface{}, error) {
	if name == "x" {
		return float64(p), nil
	}
	if c, ok := constants[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no parameter %q", name)
}

var errArity = errors.New("wrong number of arguments")

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: want 1, got %d", errArity, len(args))
		}
		x, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}

func binary(fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: want 2, got %d", errArity, len(args))
		}
		x, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return fn(x, y), nil
	}
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return math.NaN(), fmt.Errorf("argument is not a number: %T", v)
	}
}
