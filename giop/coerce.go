package giop

import "fmt"

// Coercion helpers for wire values. CDR decoding normalizes integers to
// int64 and floats to float64; servant code uses these to convert request
// arguments and clients to convert reply results.

// AsBool converts a wire value to a bool
func AsBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
	return b, nil
}

// AsLong converts a wire value to an int64
func AsLong(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// AsDouble converts a wire value to a float64. Integers widen, so servant
// code accepts "2" where "2.0" is meant.
func AsDouble(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected double, got %T", v)
	}
}

// AsString converts a wire value to a string
func AsString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

// AsDoubleSeq converts a wire value to a []float64
func AsDoubleSeq(v interface{}) ([]float64, error) {
	switch seq := v.(type) {
	case []float64:
		return seq, nil
	case []interface{}:
		result := make([]float64, len(seq))
		for i, elem := range seq {
			d, err := AsDouble(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			result[i] = d
		}
		return result, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected double sequence, got %T", v)
	}
}

// AsStringSeq converts a wire value to a []string
func AsStringSeq(v interface{}) ([]string, error) {
	switch seq := v.(type) {
	case []string:
		return seq, nil
	case []interface{}:
		result := make([]string, len(seq))
		for i, elem := range seq {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("element %d: expected string, got %T", i, elem)
			}
			result[i] = s
		}
		return result, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected string sequence, got %T", v)
	}
}

// AsOctetSeq converts a wire value to a []byte
func AsOctetSeq(v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected octet sequence, got %T", v)
	}
	return b, nil
}

// AsValueSeq converts a wire value to a []interface{}
func AsValueSeq(v interface{}) ([]interface{}, error) {
	switch seq := v.(type) {
	case []interface{}:
		return seq, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected value sequence, got %T", v)
	}
}
