package jsonl

import (
	"encoding/gob"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/go-sif/distiter"
	"github.com/go-sif/distiter/datasource"
	"github.com/go-sif/distiter/internal/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Struct decodes each line into a Row, which should be a type understood by encoding/json
type Struct[Row any] struct{}

// Decode parses a single line
func (Struct[Row]) Decode(line []byte) (Row, error) {
	var row Row
	if err := json.Unmarshal(line, &row); err != nil {
		return row, err
	}
	return row, nil
}

// GobEncode serializes a Struct decoder, which carries no state
func (Struct[Row]) GobEncode() ([]byte, error) {
	return []byte{}, nil
}

// GobDecode deserializes a Struct decoder
func (*Struct[Row]) GobDecode([]byte) error {
	return nil
}

// Record holds the values extracted from a single line by Fields, keyed by gjson path.
// Paths which were absent from the line are absent from the Record.
type Record map[string]interface{}

// String returns a textual representation of this Record, with keys in order
func (r Record) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, r[k])
	}
	b.WriteString("}")
	return b.String()
}

func init() {
	util.RegisterFormatter(func(r Record) string { return r.String() })
	// composite values extracted by gjson travel inside a Record's interface values
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
}

// Fields extracts the values found at a set of gjson paths from each line
type Fields struct {
	Paths []string
}

// Decode parses a single line
func (f *Fields) Decode(line []byte) (Record, error) {
	if !gjson.ValidBytes(line) {
		return nil, fmt.Errorf("invalid JSON: %.40q", line)
	}
	results := gjson.GetManyBytes(line, f.Paths...)
	record := make(Record, len(f.Paths))
	for i, res := range results {
		if res.Exists() {
			record[f.Paths[i]] = res.Value()
		}
	}
	return record, nil
}

// Source reads the JSON Lines in file, decoding each into a Row with decoder
func Source[Row any](file datasource.File, decoder datasource.Decoder[Row]) distiter.DistributedIterator[distiter.Result[Row]] {
	return datasource.Rows(file, decoder)
}
