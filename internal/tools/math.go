package tools

import (
	"context"
	"errors"
)

var ErrDivisionByZero = errors.New("division by zero")

type OperandArgs struct {
	A float64 `json:"a" jsonschema:"first operand" jsonschema_description:"first operand"`
	B float64 `json:"b" jsonschema:"second operand" jsonschema_description:"second operand"`
}

func Add(a, b float64) float64      { return a + b }
func Subtract(a, b float64) float64 { return a - b }
func Multiply(a, b float64) float64 { return a * b }

func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func addTool(_ context.Context, args OperandArgs) (float64, error) {
	return Add(args.A, args.B), nil
}

func subtractTool(_ context.Context, args OperandArgs) (float64, error) {
	return Subtract(args.A, args.B), nil
}

func multiplyTool(_ context.Context, args OperandArgs) (float64, error) {
	return Multiply(args.A, args.B), nil
}

func divideTool(_ context.Context, args OperandArgs) (float64, error) {
	return Divide(args.A, args.B)
}
