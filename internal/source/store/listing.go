package store

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// RawListing is one upstream store entry. A nil field was absent or null in the payload.
type RawListing struct {
	PublisherID *string
	Name        *string
	AppID       *string
	BundleID    *string
	Version     *string
}

// ParseListing decodes a single flattened leaf. Leaves that are not JSON objects
// produce a listing with every field absent. When a key repeats, the last
// occurrence wins. AppID and Version are nil when the upstream value is falsy
// (0, "", false).
func ParseListing(raw json.RawMessage) RawListing {
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return RawListing{}
	}

	var l RawListing
	obj.ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case "publisher_id":
			l.PublisherID = text(value)
		case "name":
			l.Name = text(value)
		case "app_id":
			l.AppID = storeIDText(value)
		case "bundle_id":
			l.BundleID = text(value)
		case "version":
			l.Version = truthyText(value)
		}
		return true
	})

	return l
}

func text(r gjson.Result) *string {
	if !r.Exists() {
		return nil
	}

	var s string
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		s = r.Str
	case gjson.Number:
		s = formatNumber(r.Num)
	case gjson.True:
		s = "true"
	case gjson.False:
		s = "false"
	default:
		s = r.Raw
	}
	return &s
}

func truthyText(r gjson.Result) *string {
	switch r.Type {
	case gjson.False:
		return nil
	case gjson.Number:
		if r.Num == 0 {
			return nil
		}
	case gjson.String:
		if r.Str == "" {
			return nil
		}
	}
	return text(r)
}

// storeIDText stringifies app_id with JavaScript toString rules: arrays join
// their elements with commas and objects become "[object Object]".
func storeIDText(r gjson.Result) *string {
	if r.IsArray() || r.IsObject() {
		s := jsString(r)
		return &s
	}
	return truthyText(r)
}

func jsString(r gjson.Result) string {
	switch {
	case r.IsArray():
		parts := make([]string, 0)
		r.ForEach(func(_, elem gjson.Result) bool {
			if elem.Type == gjson.Null {
				parts = append(parts, "")
			} else {
				parts = append(parts, jsString(elem))
			}
			return true
		})
		return strings.Join(parts, ",")
	case r.IsObject():
		return "[object Object]"
	}

	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return formatNumber(r.Num)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	}
	return "null"
}

// formatNumber matches JavaScript number-to-string output: integers have no
// fraction and only extreme magnitudes use exponent notation.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
