package wire

import (
	"sync"

	"github.com/arloliu/wire/internal/hash"
)

// FieldKey identifies a logical field by name.
//
// A key is either eager (Key) or lazy (LazyKey). A lazy key calls its name
// producer once, on first use, and caches the result together with the
// name's hash; both forms are interchangeable on the wire. Keys are usually
// declared once as package variables and reused:
//
//	var nameKey = wire.Key("name")
//
//	func (o *Order) WriteMarshallable(out wire.WireOut) error {
//	    return out.Write(nameKey).Text(o.Name)
//	}
type FieldKey struct {
	state *keyState
}

type keyState struct {
	once sync.Once
	fn   func() string
	name string
	hash uint64
}

// Key returns an eager key for name.
func Key(name string) FieldKey {
	s := &keyState{name: name, hash: hash.ID(name)}
	s.once.Do(func() {})

	return FieldKey{state: s}
}

// LazyKey returns a key whose name is produced by fn on first use.
func LazyKey(fn func() string) FieldKey {
	return FieldKey{state: &keyState{fn: fn}}
}

func (s *keyState) resolve() {
	s.once.Do(func() {
		if s.fn != nil {
			s.name = s.fn()
			s.fn = nil
		}
		s.hash = hash.ID(s.name)
	})
}

// Name returns the field name. The zero FieldKey has the empty name.
func (k FieldKey) Name() string {
	if k.state == nil {
		return ""
	}
	k.state.resolve()

	return k.state.name
}

// Hash returns the xxHash64 of the field name, the code NumericBinary writes
// in place of the name.
func (k FieldKey) Hash() uint64 {
	if k.state == nil {
		return hash.ID("")
	}
	k.state.resolve()

	return k.state.hash
}

// Equal reports whether both keys name the same field.
func (k FieldKey) Equal(other FieldKey) bool {
	return k.Hash() == other.Hash() && k.Name() == other.Name()
}

func (k FieldKey) String() string {
	return k.Name()
}
