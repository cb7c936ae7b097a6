package utils

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

func StructToBytes(s interface{}) ([]byte, error) {
	return json.Marshal(s)
}

func BytesToStruct(data []byte, s interface{}) error {
	return json.Unmarshal(data, s)
}

// IsEmptyPayload reports whether a backend body carries nothing to render:
// no bytes, null, an empty array or an empty object.
func IsEmptyPayload(data []byte) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return true
	}
	if !gjson.ValidBytes(data) {
		return false
	}
	res := gjson.ParseBytes(data)
	switch {
	case res.Type == gjson.Null:
		return true
	case res.IsArray():
		return len(res.Array()) == 0
	case res.IsObject():
		empty := true
		res.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return empty
	}
	return false
}
