// Package codec converts between typed Go values and the JSON-shaped trees
// held by a document store (map[string]any, []any, string, float64, bool, nil).
//
// Conversion goes through a pluggable JSON Driver. The default is backed by
// goccy/go-json and may be swapped process-wide with SetDriver.
package codec

import (
	stdjson "encoding/json"
	"sync"

	gojson "github.com/goccy/go-json"
)

// Driver marshals and unmarshals JSON.
type Driver interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
	Name() string
}

var (
	driverMu      sync.RWMutex
	currentDriver Driver = goJSONDriver{}
)

// SetDriver replaces the global driver; nil values are ignored.
func SetDriver(d Driver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	currentDriver = d
	driverMu.Unlock()
}

// UseDefaultDriver restores the go-json backed driver.
func UseDefaultDriver() {
	driverMu.Lock()
	currentDriver = goJSONDriver{}
	driverMu.Unlock()
}

// Current returns the driver in use.
func Current() Driver {
	driverMu.RLock()
	d := currentDriver
	driverMu.RUnlock()
	return d
}

// GoJSON returns the driver backed by goccy/go-json.
func GoJSON() Driver { return goJSONDriver{} }

// Std returns a driver backed by encoding/json.
func Std() Driver { return stdDriver{} }

type goJSONDriver struct{}

func (goJSONDriver) Marshal(v any) ([]byte, error)   { return gojson.Marshal(v) }
func (goJSONDriver) Unmarshal(b []byte, v any) error { return gojson.Unmarshal(b, v) }
func (goJSONDriver) Name() string                    { return "go-json" }

type stdDriver struct{}

func (stdDriver) Marshal(v any) ([]byte, error)   { return stdjson.Marshal(v) }
func (stdDriver) Unmarshal(b []byte, v any) error { return stdjson.Unmarshal(b, v) }
func (stdDriver) Name() string                    { return "encoding/json" }
