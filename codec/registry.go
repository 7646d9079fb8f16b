package codec

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/internal/logging"
	"github.com/vertiqadb/vertiqa-go/typedesc"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// DefaultCacheSize bounds the default registry's codec cache.
const DefaultCacheSize = 1024

// Registry maps type descriptor strings to codec instances, memoized in a
// bounded LRU cache. Identical descriptors always produce structurally
// identical codecs, so cached reuse is safe; the cache itself is
// concurrency-safe and a Registry may be shared across goroutines.
type Registry struct {
	cache *lru.Cache[string, Codec]
	log   *logging.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	cacheSize int
	log       *logging.Logger
}

// WithCacheSize bounds the codec cache entry count.
func WithCacheSize(n int) RegistryOption {
	return func(o *registryOptions) { o.cacheSize = n }
}

// WithLogger routes registry debug logging to log.
func WithLogger(log *logging.Logger) RegistryOption {
	return func(o *registryOptions) { o.log = log }
}

// NewRegistry creates an independent codec registry.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	o := registryOptions{cacheSize: DefaultCacheSize, log: logging.Global()}
	for _, opt := range opts {
		opt(&o)
	}
	cache, err := lru.New[string, Codec](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("codec: registry cache: %w", err)
	}
	return &Registry{cache: cache, log: o.log.With("component", "codec-registry")}, nil
}

// Get returns the codec for a type descriptor, building and caching it on
// first use. Malformed descriptors are hard errors.
func (r *Registry) Get(typ string) (Codec, error) {
	key := strings.TrimSpace(typ)
	if c, ok := r.cache.Get(key); ok {
		return c, nil
	}
	c, err := r.build(key)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, c)
	r.log.Debug("codec built", "type", key)
	return c, nil
}

func (r *Registry) build(typ string) (Codec, error) {
	desc, err := typedesc.Parse(typ)
	if err != nil {
		return nil, err
	}
	if c, ok := scalarCodecs[desc.Base]; ok {
		if len(desc.Args) != 0 {
			return nil, &FormatError{Type: typ, Msg: desc.Base + " takes no arguments"}
		}
		return c, nil
	}
	switch desc.Base {
	case "FixedString":
		n, err := intArg(desc, 0)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, &FormatError{Type: typ, Msg: "fixed size must be positive"}
		}
		return &fixedStringCodec{typ: desc.Raw, n: n}, nil
	case "DateTime":
		loc, err := locationArg(desc, 0)
		if err != nil {
			return nil, err
		}
		return &dateTimeCodec{typ: desc.Raw, loc: loc}, nil
	case "DateTime64":
		precision, err := intArg(desc, 0)
		if err != nil {
			return nil, err
		}
		loc, err := locationArg(desc, 1)
		if err != nil {
			return nil, err
		}
		return newDateTime64Codec(desc.Raw, precision, loc)
	case "Decimal":
		precision, err := intArg(desc, 0)
		if err != nil {
			return nil, err
		}
		scale, err := intArg(desc, 1)
		if err != nil {
			return nil, err
		}
		return newDecimalCodec(desc.Raw, precision, scale)
	case "Decimal32", "Decimal64", "Decimal128", "Decimal256":
		scale, err := intArg(desc, 0)
		if err != nil {
			return nil, err
		}
		return newDecimalCodec(desc.Raw, decimalAliasPrecision[desc.Base], scale)
	case "Enum8", "Enum16":
		members, err := typedesc.Members(desc.Args)
		if err != nil {
			return nil, err
		}
		return newEnumCodec(desc.Raw, desc.Base == "Enum16", members)
	case "Nullable":
		inner, err := r.oneChild(desc)
		if err != nil {
			return nil, err
		}
		return &nullableCodec{typ: desc.Raw, inner: inner}, nil
	case "Array":
		elem, err := r.oneChild(desc)
		if err != nil {
			return nil, err
		}
		return &arrayCodec{typ: desc.Raw, elem: elem}, nil
	case "Map":
		if len(desc.Args) != 2 {
			return nil, &FormatError{Type: typ, Msg: "Map takes exactly two arguments"}
		}
		key, err := r.Get(desc.Args[0])
		if err != nil {
			return nil, err
		}
		val, err := r.Get(desc.Args[1])
		if err != nil {
			return nil, err
		}
		return &mapCodec{typ: desc.Raw, key: key, val: val}, nil
	case "Tuple":
		return r.buildTuple(desc.Raw, desc.Args)
	case "Nested":
		// Nested(...) is sugar for Array(Tuple(...)).
		tuple, err := r.buildTuple("Tuple("+strings.Join(desc.Args, ", ")+")", desc.Args)
		if err != nil {
			return nil, err
		}
		return &arrayCodec{typ: desc.Raw, elem: tuple}, nil
	case "LowCardinality":
		return r.buildLowCardinality(desc)
	case "Variant":
		subtypes := make([]Codec, len(desc.Args))
		for i, arg := range desc.Args {
			if subtypes[i], err = r.Get(arg); err != nil {
				return nil, err
			}
		}
		return newVariantCodec(desc.Raw, subtypes)
	case "Dynamic":
		if len(desc.Args) != 0 {
			return nil, &FormatError{Type: typ, Msg: "Dynamic takes no arguments"}
		}
		return newDynamicCodec(desc.Raw, r.Get), nil
	case "JSON":
		return r.buildJSON(desc)
	case "Point":
		return r.geoAlias(desc, "Tuple(Float64, Float64)")
	case "Ring":
		return r.geoAlias(desc, "Array(Point)")
	case "Polygon":
		return r.geoAlias(desc, "Array(Ring)")
	case "MultiPolygon":
		return r.geoAlias(desc, "Array(Polygon)")
	}
	return nil, &FormatError{Type: typ, Msg: "no codec for type"}
}

var decimalAliasPrecision = map[string]int{
	"Decimal32":  9,
	"Decimal64":  18,
	"Decimal128": 38,
	"Decimal256": 76,
}

func (r *Registry) oneChild(desc typedesc.Desc) (Codec, error) {
	if len(desc.Args) != 1 {
		return nil, &FormatError{Type: desc.Raw, Msg: desc.Base + " takes exactly one argument"}
	}
	return r.Get(desc.Args[0])
}

func (r *Registry) buildTuple(typ string, args []string) (Codec, error) {
	elems, err := typedesc.Elements(args)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, &FormatError{Type: typ, Msg: "empty tuple"}
	}
	var names []string
	if elems[0].Name != "" {
		names = make([]string, len(elems))
		for i := range elems {
			names[i] = elems[i].Name
		}
	}
	fields := make([]Codec, len(elems))
	for i, e := range elems {
		if fields[i], err = r.Get(e.Type); err != nil {
			return nil, err
		}
	}
	return &tupleCodec{typ: typ, names: names, fields: fields}, nil
}

func (r *Registry) buildLowCardinality(desc typedesc.Desc) (Codec, error) {
	if len(desc.Args) != 1 {
		return nil, &FormatError{Type: desc.Raw, Msg: "LowCardinality takes exactly one argument"}
	}
	innerDesc, err := typedesc.Parse(desc.Args[0])
	if err != nil {
		return nil, err
	}
	if innerDesc.Base == "Nullable" {
		if len(innerDesc.Args) != 1 {
			return nil, &FormatError{Type: desc.Raw, Msg: "Nullable takes exactly one argument"}
		}
		unwrapped, err := r.Get(innerDesc.Args[0])
		if err != nil {
			return nil, err
		}
		return newLowCardinalityCodec(desc.Raw, unwrapped, true), nil
	}
	inner, err := r.Get(desc.Args[0])
	if err != nil {
		return nil, err
	}
	return newLowCardinalityCodec(desc.Raw, inner, false), nil
}

func (r *Registry) buildJSON(desc typedesc.Desc) (Codec, error) {
	elems, err := typedesc.Elements(desc.Args)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(elems))
	typed := make([]Codec, len(elems))
	for i, e := range elems {
		if e.Name == "" {
			return nil, &FormatError{Type: desc.Raw, Msg: "JSON typed path needs a name"}
		}
		paths[i] = e.Name
		if typed[i], err = r.Get(e.Type); err != nil {
			return nil, err
		}
	}
	return newJSONCodec(desc.Raw, paths, typed, r.Get), nil
}

// geoAlias resolves a sugar name to its underlying shape while keeping the
// declared name as the codec's type.
func (r *Registry) geoAlias(desc typedesc.Desc, target string) (Codec, error) {
	if len(desc.Args) != 0 {
		return nil, &FormatError{Type: desc.Raw, Msg: desc.Base + " takes no arguments"}
	}
	inner, err := r.Get(target)
	if err != nil {
		return nil, err
	}
	return &aliasCodec{typ: desc.Raw, inner: inner}, nil
}

func intArg(desc typedesc.Desc, i int) (int, error) {
	if i >= len(desc.Args) {
		return 0, &FormatError{Type: desc.Raw, Msg: fmt.Sprintf("missing argument %d", i)}
	}
	n, err := strconv.Atoi(desc.Args[i])
	if err != nil {
		return 0, &FormatError{Type: desc.Raw, Msg: fmt.Sprintf("argument %q is not an integer", desc.Args[i])}
	}
	return n, nil
}

// locationArg parses an optional quoted time-zone argument, defaulting to
// UTC when absent.
func locationArg(desc typedesc.Desc, i int) (*time.Location, error) {
	if i >= len(desc.Args) {
		return time.UTC, nil
	}
	name := typedesc.Unquote(desc.Args[i])
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &FormatError{Type: desc.Raw, Msg: fmt.Sprintf("unknown time zone %q", name)}
	}
	return loc, nil
}

// aliasCodec keeps a sugar type's declared name while delegating the wire
// work to its desugared shape.
type aliasCodec struct {
	typ   string
	inner Codec
}

func (c *aliasCodec) Type() string      { return c.typ }
func (c *aliasCodec) Zero() any         { return c.inner.Zero() }
func (c *aliasCodec) Children() []Codec { return c.inner.Children() }

func (c *aliasCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *aliasCodec) Encode(b *wire.Buffer, col column.Column) error {
	return c.inner.Encode(b, col)
}

func (c *aliasCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	return c.inner.DecodeDense(r, rows, st)
}

// scalarCodecs holds the shared argument-less codec instances.
var scalarCodecs = buildScalarCodecs()

func buildScalarCodecs() map[string]Codec {
	m := newScalarIntCodecs()
	m["String"] = &stringCodec{}
	m["UUID"] = &uuidCodec{}
	m["IPv4"] = &ipv4Codec{}
	m["IPv6"] = &ipv6Codec{}
	m["Date"] = &dateCodec{}
	m["Date32"] = &date32Codec{}
	return m
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, created on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, _ = NewRegistry() // DefaultCacheSize is valid
	})
	return defaultRegistry
}

// Get resolves a type descriptor against the default registry.
func Get(typ string) (Codec, error) {
	return Default().Get(typ)
}
