package util

import (
	"bytes"

	"github.com/goccy/go-json"
)

func StructToJSON(data interface{}) string {
	jsonBytes, err := json.MarshalNoEscape(data)
	if err != nil {
		return ""
	}
	return string(jsonBytes)
}

// PrettyJSON indents raw JSON with two spaces. Invalid input is returned as is.
func PrettyJSON(raw []byte) string {
	pretty := bytes.Buffer{}
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}
