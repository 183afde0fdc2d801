package store

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Flatten collapses arbitrarily nested JSON arrays into a single ordered list of
// leaves. Non-array values pass through unchanged and empty arrays contribute
// nothing. A body that is not valid JSON yields an empty list.
func Flatten(body []byte) []json.RawMessage {
	leaves := make([]json.RawMessage, 0)
	if !gjson.ValidBytes(body) {
		return leaves
	}

	flattenInto(gjson.ParseBytes(body), &leaves)
	return leaves
}

func flattenInto(node gjson.Result, leaves *[]json.RawMessage) {
	if !node.IsArray() {
		*leaves = append(*leaves, json.RawMessage(node.Raw))
		return
	}

	node.ForEach(func(_, child gjson.Result) bool {
		flattenInto(child, leaves)
		return true
	})
}
