// Package vertiqa bundles the Native-format codec engine: a codec
// registry, the block compression method, and logging, configured
// programmatically or from a config file.
package vertiqa

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/vertiqadb/vertiqa-go/codec"
	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/compress"
	"github.com/vertiqadb/vertiqa-go/internal/config"
	"github.com/vertiqadb/vertiqa-go/internal/logging"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// Engine is one independent codec engine instance. Engines are safe for
// concurrent use; decode sessions carry the only mutable state.
type Engine struct {
	registry *codec.Registry
	method   compress.Method
	log      *logging.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	cacheSize int
	method    compress.Method
	log       *logging.Logger
}

// WithCacheSize bounds the engine's codec cache.
func WithCacheSize(n int) Option {
	return func(o *engineOptions) { o.cacheSize = n }
}

// WithCompression selects the block envelope method.
func WithCompression(m compress.Method) Option {
	return func(o *engineOptions) { o.method = m }
}

// WithLogger routes engine logging to log.
func WithLogger(log *logging.Logger) Option {
	return func(o *engineOptions) { o.log = log }
}

// New creates an engine with programmatic options.
func New(opts ...Option) (*Engine, error) {
	o := engineOptions{
		cacheSize: codec.DefaultCacheSize,
		method:    compress.LZ4,
		log:       logging.Global(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	registry, err := codec.NewRegistry(
		codec.WithCacheSize(o.cacheSize),
		codec.WithLogger(o.log),
	)
	if err != nil {
		return nil, err
	}
	return &Engine{registry: registry, method: o.method, log: o.log}, nil
}

// Open creates an engine from a config file, falling back to defaults
// when the path is empty and no file is found.
func Open(configPath string) (*Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	method, err := compress.MethodFromName(cfg.Compression.Method)
	if err != nil {
		return nil, err
	}
	log := loggerFor(cfg.Logging)
	return New(
		WithCacheSize(cfg.Registry.CacheSize),
		WithCompression(method),
		WithLogger(log),
	)
}

func loggerFor(cfg config.LoggingConfig) *logging.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Format == "console" {
		return logging.NewDevelopment()
	}
	return logging.NewWithWriter(os.Stdout, level)
}

// Registry exposes the engine's codec registry.
func (e *Engine) Registry() *codec.Registry {
	return e.registry
}

// Codec resolves a type descriptor against the engine's registry.
func (e *Engine) Codec(typ string) (codec.Codec, error) {
	return e.registry.Get(typ)
}

// EncodeColumn encodes row values of the given type into wire bytes.
func (e *Engine) EncodeColumn(typ string, values []any) ([]byte, error) {
	c, err := e.registry.Get(typ)
	if err != nil {
		return nil, err
	}
	col, err := c.FromValues(values)
	if err != nil {
		return nil, err
	}
	b := wire.NewBuffer(len(values) * 8)
	if err := c.Encode(b, col); err != nil {
		return nil, err
	}
	out := make([]byte, b.Len())
	copy(out, b.Bytes())
	return out, nil
}

// DecodeColumn decodes rows values of the given type from wire bytes.
func (e *Engine) DecodeColumn(typ string, data []byte, rows int) (column.Column, error) {
	c, err := e.registry.Get(typ)
	if err != nil {
		return nil, err
	}
	r := wire.NewReader(data)
	return c.DecodeDense(r, rows, codec.NewDecodeState())
}

// CompressBlock wraps encoded bytes in the engine's chunk envelope.
func (e *Engine) CompressBlock(data []byte) ([]byte, error) {
	return compress.Compress(e.method, data)
}

// DecompressBlock unwraps a chunk envelope.
func (e *Engine) DecompressBlock(chunk []byte) ([]byte, error) {
	return compress.Decompress(chunk)
}
