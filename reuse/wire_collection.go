// Package reuse holds a small nested model, a collection of named properties
// and sub-collections, that exercises every wire format end to end.
package reuse

import (
	"sort"

	"github.com/arloliu/wire"
)

var (
	referenceKey   = wire.Key("reference")
	pathKey        = wire.Key("path")
	nameKey        = wire.Key("name")
	valueKey       = wire.Key("value")
	idKey          = wire.Key("id")
	propertiesKey  = wire.Key("properties")
	collectionsKey = wire.Key("collections")
)

// WireProperty is one named value of a collection.
type WireProperty struct {
	Reference string
	Path      string
	Name      string
	Value     string
	ID        int64
}

func (p *WireProperty) WriteMarshallable(out wire.WireOut) error {
	for _, f := range []struct {
		key   wire.FieldKey
		value string
	}{
		{referenceKey, p.Reference},
		{pathKey, p.Path},
		{nameKey, p.Name},
		{valueKey, p.Value},
	} {
		if err := out.Write(f.key).Text(f.value); err != nil {
			return err
		}
	}

	return out.Write(idKey).Int64(p.ID)
}

func (p *WireProperty) ReadMarshallable(in wire.WireIn) error {
	for _, f := range []struct {
		key wire.FieldKey
		dst *string
	}{
		{referenceKey, &p.Reference},
		{pathKey, &p.Path},
		{nameKey, &p.Name},
		{valueKey, &p.Value},
	} {
		v, err := in.Read(f.key).Text()
		if err != nil {
			return err
		}
		*f.dst = v
	}

	var err error
	p.ID, err = in.Read(idKey).Int64()

	return err
}

// WireCollection is a tree of properties keyed by name.
type WireCollection struct {
	Reference   string
	Path        string
	Name        string
	Properties  map[string]*WireProperty
	Collections map[string]*WireCollection
}

// NewWireCollection creates an empty collection.
func NewWireCollection() *WireCollection {
	return &WireCollection{
		Properties:  make(map[string]*WireProperty),
		Collections: make(map[string]*WireCollection),
	}
}

// WriteMarshallable writes properties as alias-tagged objects and
// sub-collections as plain nested objects, both sorted by key so the output
// is deterministic.
func (c *WireCollection) WriteMarshallable(out wire.WireOut) error {
	if err := out.Write(referenceKey).Text(c.Reference); err != nil {
		return err
	}
	if err := out.Write(pathKey).Text(c.Path); err != nil {
		return err
	}
	if err := out.Write(nameKey).Text(c.Name); err != nil {
		return err
	}

	props := make([]*WireProperty, 0, len(c.Properties))
	for _, key := range sortedKeys(c.Properties) {
		props = append(props, c.Properties[key])
	}
	if err := wire.WriteObjects(out.Write(propertiesKey), props); err != nil {
		return err
	}

	return out.Write(collectionsKey).Sequence(func(seq wire.SequenceOut) error {
		for _, key := range sortedKeys(c.Collections) {
			if err := seq.Add().Marshallable(c.Collections[key]); err != nil {
				return err
			}
		}

		return nil
	})
}

func (c *WireCollection) ReadMarshallable(in wire.WireIn) error {
	var err error
	if c.Reference, err = in.Read(referenceKey).Text(); err != nil {
		return err
	}
	if c.Path, err = in.Read(pathKey).Text(); err != nil {
		return err
	}
	if c.Name, err = in.Read(nameKey).Text(); err != nil {
		return err
	}

	props, err := wire.ReadObjects[*WireProperty](in.Read(propertiesKey))
	if err != nil {
		return err
	}
	c.Properties = make(map[string]*WireProperty, len(props))
	for _, p := range props {
		c.Properties[p.Name] = p
	}

	c.Collections = make(map[string]*WireCollection)

	return in.Read(collectionsKey).Sequence(func(seq wire.SequenceIn) error {
		for seq.HasNext() {
			child := NewWireCollection()
			if err := seq.Next().Marshallable(child); err != nil {
				return err
			}
			c.Collections[child.Name] = child
		}

		return nil
	})
}

// RegisterAliases registers the model's object aliases in r.
func RegisterAliases(r *wire.Registry) error {
	if err := r.AddAlias(&WireProperty{}); err != nil {
		return err
	}

	return r.AddAlias(&WireCollection{})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
