package hpp

import (
	"github.com/humanoid-path-planner/hpp-corbaserver-go/giop"
)

// Result coercions shared by the facades. Integers arrive as int64 and
// sequences may arrive element-tagged depending on the encoder; the giop
// helpers normalize both.

func longResult(v interface{}) (int, error) {
	n, err := giop.AsLong(v)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func doubleResult(v interface{}) (float64, error) {
	return giop.AsDouble(v)
}

func doubleSeqResult(v interface{}) ([]float64, error) {
	return giop.AsDoubleSeq(v)
}

func stringSeqResult(v interface{}) ([]string, error) {
	return giop.AsStringSeq(v)
}
