package feeder

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// NewJSONSource loads a JSON file containing an array of objects. Values of
// any JSON type are stored in their string form.
func NewJSONSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open JSON file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode JSON: invalid document")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("JSON file must contain an array of objects")
	}

	var (
		records []Record
		bad     error
	)
	root.ForEach(func(_, item gjson.Result) bool {
		idx := len(records)
		if !item.IsObject() {
			bad = fmt.Errorf("record %d is not an object", idx)
			return false
		}
		record := make(Record)
		item.ForEach(func(key, value gjson.Result) bool {
			record[key.String()] = value.String()
			return true
		})
		if len(record) == 0 {
			bad = fmt.Errorf("record %d is empty", idx)
			return false
		}
		records = append(records, record)
		return true
	})
	if bad != nil {
		return nil, bad
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("JSON file contains empty array")
	}

	return &Source{records: records}, nil
}
