package wire

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"

	"github.com/arloliu/wire/errs"
	"github.com/arloliu/wire/internal/options"
)

var readMarshallableType = reflect.TypeOf((*ReadMarshallable)(nil)).Elem()

// Entry is one registered alias.
type Entry struct {
	// Alias is the short name written on the wire.
	Alias string
	// Type is the registered type with any pointer stripped.
	Type reflect.Type

	pointer   bool
	demarshal Demarshaller
}

// sameAs reports whether registering other again is a no-op. Factories are
// compared by presence only.
func (e *Entry) sameAs(other *Entry) bool {
	return e.Type == other.Type && e.pointer == other.pointer &&
		(e.demarshal != nil) == (other.demarshal != nil)
}

// String describes the registered shape, e.g. "*pkg.Order with demarshaller".
func (e *Entry) String() string {
	s := e.Type.String()
	if e.pointer {
		s = "*" + s
	}
	if e.demarshal != nil {
		s += " with demarshaller"
	}

	return s
}

// Reconstruct builds a new value of the entry's type from in.
//
// Entries added with AddDemarshaller call their factory; entries added with
// AddAlias allocate an empty value and call its ReadMarshallable method. The
// result has the exact registered type: a pointer when the prototype was a
// pointer, a value otherwise.
func (e *Entry) Reconstruct(in WireIn) (any, error) {
	if e.demarshal != nil {
		return e.demarshal(in)
	}

	rv := reflect.New(e.Type)
	rm, ok := rv.Interface().(ReadMarshallable)
	if !ok {
		return nil, errors.Wrapf(errs.ErrInvalidAlias, "%s does not implement ReadMarshallable", rv.Type())
	}
	if err := rm.ReadMarshallable(in); err != nil {
		return nil, err
	}
	if e.pointer {
		return rv.Interface(), nil
	}

	return rv.Elem().Interface(), nil
}

// Registry maps short aliases to reconstructable types.
//
// Registration normally happens once at start-up while lookups happen on
// every decoded object, so lookups are lock-free and only mutations take
// the registry's mutex. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	byAlias *xsync.MapOf[string, *Entry]
	byType  *xsync.MapOf[reflect.Type, *Entry]
	logger  logrus.FieldLogger
}

// RegistryOption configures a Registry.
type RegistryOption = options.Option[*Registry]

// WithRegistryLogger sets the logger used to trace registrations.
func WithRegistryLogger(logger logrus.FieldLogger) RegistryOption {
	return options.NoError(func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		byAlias: xsync.NewMapOf[string, *Entry](),
		byType:  xsync.NewMapOf[reflect.Type, *Entry](),
		logger:  logrus.StandardLogger(),
	}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// DefaultRegistry is the process-wide registry used by wires created
// without WithRegistry.
var DefaultRegistry = mustRegistry()

func mustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}

	return r
}

// AddAlias registers prototype's type in DefaultRegistry.
func AddAlias(prototype any, alias ...string) error {
	return DefaultRegistry.AddAlias(prototype, alias...)
}

// AddDemarshaller registers prototype's type with a factory in DefaultRegistry.
func AddDemarshaller(prototype any, fn Demarshaller, alias ...string) error {
	return DefaultRegistry.AddDemarshaller(prototype, fn, alias...)
}

// AddAlias registers the type of prototype under alias, or under the Go type
// name (without package path or pointer) when no alias is given.
//
// The type's pointer must implement ReadMarshallable; types that can only be
// built atomically are registered with AddDemarshaller instead. Registering
// the same prototype under the same alias again is a no-op. Registering a
// different type, or the same type as a value instead of a pointer or with a
// factory, under an alias that is taken fails with AliasConflictError and
// leaves the existing entry untouched.
func (r *Registry) AddAlias(prototype any, alias ...string) error {
	t, pointer, err := prototypeType(prototype)
	if err != nil {
		return err
	}
	if !reflect.PointerTo(t).Implements(readMarshallableType) {
		return errors.Wrapf(errs.ErrInvalidAlias,
			"%s does not implement ReadMarshallable, register it with AddDemarshaller", t)
	}

	return r.register(&Entry{Alias: aliasFor(t, alias), Type: t, pointer: pointer})
}

// AddDemarshaller registers the type of prototype with fn as its
// reconstruction entry point. Alias rules are the same as for AddAlias.
func (r *Registry) AddDemarshaller(prototype any, fn Demarshaller, alias ...string) error {
	if fn == nil {
		return errors.Wrap(errs.ErrInvalidAlias, "nil demarshaller")
	}
	t, pointer, err := prototypeType(prototype)
	if err != nil {
		return err
	}

	return r.register(&Entry{Alias: aliasFor(t, alias), Type: t, pointer: pointer, demarshal: fn})
}

func (r *Registry) register(entry *Entry) error {
	if entry.Alias == "" {
		return errors.Wrapf(errs.ErrInvalidAlias, "empty alias for %s", entry.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byAlias.Load(entry.Alias); ok {
		if existing.sameAs(entry) {
			return nil
		}
		r.logger.WithFields(logrus.Fields{
			"alias":     entry.Alias,
			"existing":  existing.String(),
			"requested": entry.String(),
		}).Warn("alias conflict")

		return &errs.AliasConflictError{
			Alias:     entry.Alias,
			Existing:  existing.String(),
			Requested: entry.String(),
		}
	}

	r.byAlias.Store(entry.Alias, entry)
	// The first alias of a type is the one written on the wire.
	if _, ok := r.byType.Load(entry.Type); !ok {
		r.byType.Store(entry.Type, entry)
	}
	r.logger.WithFields(logrus.Fields{
		"alias": entry.Alias,
		"type":  entry.Type.String(),
	}).Debug("registered alias")

	return nil
}

// Resolve returns the entry registered under alias.
func (r *Registry) Resolve(alias string) (*Entry, error) {
	entry, ok := r.byAlias.Load(alias)
	if !ok {
		return nil, &errs.UnresolvedAliasError{Alias: alias}
	}

	return entry, nil
}

// AliasOf returns the alias written for v's type.
func (r *Registry) AliasOf(v any) (string, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return "", errors.Wrap(errs.ErrInvalidAlias, "nil value")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	entry, ok := r.byType.Load(t)
	if !ok {
		return "", &errs.UnresolvedAliasError{Alias: t.String()}
	}

	return entry.Alias, nil
}

// Aliases returns every registered alias in sorted order.
func (r *Registry) Aliases() []string {
	aliases := make([]string, 0, r.byAlias.Size())
	r.byAlias.Range(func(alias string, _ *Entry) bool {
		aliases = append(aliases, alias)
		return true
	})
	sort.Strings(aliases)

	return aliases
}

// Len returns the number of registered aliases.
func (r *Registry) Len() int {
	return r.byAlias.Size()
}

func prototypeType(prototype any) (reflect.Type, bool, error) {
	t := reflect.TypeOf(prototype)
	if t == nil {
		return nil, false, errors.Wrap(errs.ErrInvalidAlias, "nil prototype")
	}
	pointer := t.Kind() == reflect.Pointer
	if pointer {
		t = t.Elem()
	}

	return t, pointer, nil
}

func aliasFor(t reflect.Type, alias []string) string {
	if len(alias) > 0 {
		return alias[0]
	}

	return t.Name()
}
