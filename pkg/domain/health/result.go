// pkg/domain/health/result.go
package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Datum is a single diagnostic reading attached to a Result.
type Datum struct {
	Key   string
	Value interface{}
}

// Data is an ordered set of diagnostic readings. Keys are unique and keep
// their insertion order when rendered.
type Data []Datum

// NewData builds Data from alternating key/value arguments. A trailing key
// without a value is dropped and non-string keys are formatted with fmt.
func NewData(keysAndValues ...interface{}) Data {
	var d Data
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		d = d.With(key, keysAndValues[i+1])
	}
	return d
}

// With returns a copy of d with key set to value. An existing key keeps its
// position.
func (d Data) With(key string, value interface{}) Data {
	out := make(Data, len(d), len(d)+1)
	copy(out, d)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Datum{Key: key, Value: value})
}

// Get returns the value stored under key.
func (d Data) Get(key string) (interface{}, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (d Data) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// MarshalJSON renders d as a JSON object in insertion order. Values that
// cannot be encoded are rendered as their fmt string form so a single bad
// reading never breaks the surrounding report.
func (d Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(e.Key)
		if err != nil {
			return nil, fmt.Errorf("encoding data key: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encodeValue(e.Value))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(v interface{}) []byte {
	b, err := marshalJSON(v)
	if err == nil {
		return b
	}
	// strings always encode
	b, _ = marshalJSON(fmt.Sprint(v))
	return b
}

// marshalJSON is json.Marshal without HTML escaping.
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Result is the immutable outcome of a single probe evaluation.
type Result struct {
	// Status is the outcome of the probe.
	Status Status `json:"status"`

	// Description is a human readable explanation of the status.
	Description string `json:"description"`

	// Data holds the diagnostic readings taken by the probe.
	Data Data `json:"data"`

	// Duration is how long the evaluation took. Set by the checker.
	Duration time.Duration `json:"-"`

	// Err is the failure that produced an Unhealthy result, if any.
	Err error `json:"-"`
}

// NewResult creates a Result with the given values.
func NewResult(status Status, description string, data Data) Result {
	return Result{
		Status:      status,
		Description: description,
		Data:        data,
	}
}

// FailedResult converts an error into an Unhealthy result carrying the error
// text as its description.
func FailedResult(err error) Result {
	return Result{
		Status:      Unhealthy,
		Description: err.Error(),
		Err:         err,
	}
}
