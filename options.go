package typedmodel

import (
	"github.com/rs/zerolog"

	"github.com/reoring/typedmodel/codec"
)

// ModelOption configures a Model.
type ModelOption func(*modelConfig)

type modelConfig struct {
	name   string
	logger zerolog.Logger
	driver codec.Driver
}

func newModelConfig(opts []ModelOption) modelConfig {
	cfg := modelConfig{logger: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithName sets the name the model is registered under on a Host.
func WithName(name string) ModelOption { return func(c *modelConfig) { c.name = name } }

// WithLogger sets the logger of the store allocated by New.
func WithLogger(l zerolog.Logger) ModelOption { return func(c *modelConfig) { c.logger = l } }

// WithDriver pins the codec driver used by the model and its store.
func WithDriver(d codec.Driver) ModelOption { return func(c *modelConfig) { c.driver = d } }

// SetOption configures a write.
type SetOption func(*setConfig)

type setConfig struct {
	async bool
}

// Async asks the store to defer change propagation for the write.
func Async() SetOption { return func(c *setConfig) { c.async = true } }

func newSetConfig(opts []SetOption) setConfig {
	var cfg setConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Mode is the data flow direction of a binding.
type Mode int

const (
	// ModeDefault leaves the choice to the binding layer.
	ModeDefault Mode = iota
	// ModeOneWay propagates store changes to the target only.
	ModeOneWay
	// ModeTwoWay also writes target changes back to the store.
	ModeTwoWay
	// ModeOneTime reads the value once and never re-evaluates it.
	ModeOneTime
)

func (m Mode) String() string {
	switch m {
	case ModeOneWay:
		return "OneWay"
	case ModeTwoWay:
		return "TwoWay"
	case ModeOneTime:
		return "OneTime"
	default:
		return "Default"
	}
}

// BindingOption configures a binding descriptor. Options that do not apply
// to a descriptor kind are ignored.
type BindingOption func(*bindingConfig)

type bindingConfig struct {
	mode       Mode
	modelName  string
	params     map[string]any
	startIndex int
	length     int
}

// WithMode sets the binding mode.
func WithMode(m Mode) BindingOption { return func(c *bindingConfig) { c.mode = m } }

// WithModelName overrides the model name recorded in the descriptor.
func WithModelName(name string) BindingOption {
	return func(c *bindingConfig) { c.modelName = name }
}

// WithParam adds an opaque parameter passed through to the binding layer.
func WithParam(key string, value any) BindingOption {
	return func(c *bindingConfig) {
		if c.params == nil {
			c.params = map[string]any{}
		}
		c.params[key] = value
	}
}

// WithRange limits an aggregation to length entries starting at start. A
// length of zero or less means up to the end.
func WithRange(start, length int) BindingOption {
	return func(c *bindingConfig) { c.startIndex, c.length = start, length }
}

func newBindingConfig(defaultName string, opts []BindingOption) bindingConfig {
	cfg := bindingConfig{modelName: defaultName}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func copyParams(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
