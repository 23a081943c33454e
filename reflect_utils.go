package typedmodel

import (
	"reflect"
	"strings"
)

// jsonKey returns the document key of a struct field. It follows the codec:
// the json tag name when present, the Go field name otherwise. A field tagged
// `json:"-"` has no key; `json:"-,"` is the key "-".
func jsonKey(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, true
	}
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name, true
	}
	return name, true
}

// flattened reports whether an embedded struct contributes its fields to the
// parent object. The codec does this for embedded structs without a tag name.
func flattened(sf reflect.StructField) bool {
	if !sf.Anonymous || sf.Type.Kind() != reflect.Struct {
		return false
	}
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name == ""
}
