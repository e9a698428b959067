package math_tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/tools/common"
)

// Tools returns the arithmetic tools.
func Tools() []common.StringTool {
	return []common.StringTool{
		binaryTool("add_numbers",
			"Takes two numbers separated by a space and returns their sum.",
			"3 5",
			func(a, b float64) float64 { return a + b }),
		binaryTool("subtract_numbers",
			"Takes two numbers separated by a space and returns the result of A - B.",
			"8 3",
			func(a, b float64) float64 { return a - b }),
	}
}

// Operands are the parsed input of an arithmetic tool.
type Operands struct {
	A, B float64
}

func parseOperands(input string) (Operands, error) {
	parts := strings.Fields(input)
	if len(parts) != 2 {
		return Operands{}, common.Errorf(common.KindParse, "expected 2 numbers, got %d values", len(parts))
	}
	a, err := parseNumber(parts[0])
	if err != nil {
		return Operands{}, err
	}
	b, err := parseNumber(parts[1])
	if err != nil {
		return Operands{}, err
	}
	return Operands{A: a, B: b}, nil
}

// parseNumber parses s as a float64. Out-of-range literals saturate to ±Inf
// or zero instead of failing.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, common.NewToolError(common.KindParse, err)
	}
	return v, nil
}

// FormatNumber renders v the way a float prints in the tools' answers:
// integral values keep one decimal ("8.0"), others use the shortest
// representation, and very large or small magnitudes use exponent form.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func binaryTool(name, description, example string, op func(a, b float64) float64) common.StringTool {
	usage := fmt.Sprintf("error: please send two numbers separated by space, e.g. '%s'", example)
	return common.StringTool{
		Name:        name,
		Description: description,
		InputHelp:   fmt.Sprintf("Two numbers in the form \"A B\", e.g. %q", example),
		Service:     instrumentation.ServiceLocal,
		Operation:   instrumentation.OperationCompute,
		Call: func(_ context.Context, input string) common.Result {
			ops, err := parseOperands(input)
			if err != nil {
				return common.FailureText(usage, err)
			}
			return common.Success(FormatNumber(op(ops.A, ops.B)))
		},
	}
}
