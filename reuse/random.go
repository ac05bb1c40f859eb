package reuse

import (
	"fmt"
	"math/rand"
)

// RandomWireCollection builds a collection with a few properties and one
// level of sub-collections from rng.
func RandomWireCollection(rng *rand.Rand) *WireCollection {
	c := randomCollection(rng, "root", "/root")
	for i := 0; i < 1+rng.Intn(3); i++ {
		name := fmt.Sprintf("child-%d", i)
		c.Collections[name] = randomCollection(rng, name, c.Path+"/"+name)
	}

	return c
}

func randomCollection(rng *rand.Rand, name, path string) *WireCollection {
	c := NewWireCollection()
	c.Reference = fmt.Sprintf("ref-%08x", rng.Uint32())
	c.Path = path
	c.Name = name

	for i := 0; i < 2+rng.Intn(4); i++ {
		propName := fmt.Sprintf("%s.property%d", name, i)
		c.Properties[propName] = &WireProperty{
			Reference: fmt.Sprintf("ref-%08x", rng.Uint32()),
			Path:      path + "/" + propName,
			Name:      propName,
			Value:     randomValue(rng),
			ID:        rng.Int63(),
		}
	}

	return c
}

// randomValue mixes plain words with strings that need quoting in the
// textual formats.
func randomValue(rng *rand.Rand) string {
	values := []string{
		"value",
		"12345",
		"true",
		"",
		"null",
		"with: colon",
		"multi\nline",
		`quote " and \ backslash`,
		"unicode é ☃",
	}

	return values[rng.Intn(len(values))]
}
