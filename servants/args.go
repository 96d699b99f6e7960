// Package servants implements the CORBA servants exposing the robot model
// and the problem solver, and the Corbaserver aggregate that serves them.
package servants

import (
	"fmt"

	"github.com/humanoid-path-planner/hpp-corbaserver-go/giop"
)

// Argument accessors for Dispatch implementations. They wrap the giop
// coercions with the operation name and argument position for error
// messages.

// checkArity verifies the argument count of an operation
func checkArity(op string, args []interface{}, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s expects %d arguments, got %d", op, want, len(args))
	}
	return nil
}

// stringArg returns argument i as a string
func stringArg(op string, args []interface{}, i int) (string, error) {
	s, err := giop.AsString(args[i])
	if err != nil {
		return "", fmt.Errorf("%s argument %d: %w", op, i, err)
	}
	return s, nil
}

// doubleArg returns argument i as a float64
func doubleArg(op string, args []interface{}, i int) (float64, error) {
	d, err := giop.AsDouble(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s argument %d: %w", op, i, err)
	}
	return d, nil
}

// longArg returns argument i as an int64
func longArg(op string, args []interface{}, i int) (int64, error) {
	n, err := giop.AsLong(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s argument %d: %w", op, i, err)
	}
	return n, nil
}

// doubleSeqArg returns argument i as a []float64
func doubleSeqArg(op string, args []interface{}, i int) ([]float64, error) {
	seq, err := giop.AsDoubleSeq(args[i])
	if err != nil {
		return nil, fmt.Errorf("%s argument %d: %w", op, i, err)
	}
	return seq, nil
}
