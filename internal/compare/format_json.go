package compare

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Write encodes compSet to w, one document followed by a newline.
func (jf *JSONFormatter) Write(w io.Writer, compSet *ComparisonSet) error {
	enc := json.NewEncoder(w)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(compSet)
}

// Format returns the encoded comparison set.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var buf bytes.Buffer
	if err := jf.Write(&buf, compSet); err != nil {
		return "", err
	}
	return buf.String(), nil
}
