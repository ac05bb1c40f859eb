package wire

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wire/buffer"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/internal/hash"
	"github.com/arloliu/wire/section"
)

func TestKey(t *testing.T) {
	k := Key("name")
	require.Equal(t, "name", k.Name())
	require.Equal(t, "name", k.String())
	require.Equal(t, hash.ID("name"), k.Hash())
}

func TestLazyKey(t *testing.T) {
	calls := 0
	k := LazyKey(func() string {
		calls++
		return "value"
	})
	require.Zero(t, calls, "name is not produced before first use")

	for i := 0; i < 5; i++ {
		require.Equal(t, "value", k.Name())
	}
	require.Equal(t, hash.ID("value"), k.Hash())
	require.Equal(t, 1, calls)

	// copies share the memoized name
	k2 := k
	require.Equal(t, "value", k2.Name())
	require.Equal(t, 1, calls)
}

func TestLazyKey_Concurrent(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	k := LazyKey(func() string {
		mu.Lock()
		calls++
		mu.Unlock()

		return "shared"
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.Equal(t, "shared", k.Name())
		}()
	}
	wg.Wait()
	require.Equal(t, 1, calls)
}

func TestFieldKey_Equal(t *testing.T) {
	require.True(t, Key("a").Equal(LazyKey(func() string { return "a" })))
	require.False(t, Key("a").Equal(Key("b")))

	var zero FieldKey
	require.Empty(t, zero.Name())
	require.True(t, zero.Equal(Key("")))
}

func TestLazyKey_OnTheWire(t *testing.T) {
	lazyName := LazyKey(func() string { return "name" })

	for _, tc := range wireCases() {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWire(t, tc)
			require.NoError(t, w.WriteDocumentFunc(false, func(out WireOut) error {
				return out.Write(lazyName).Text("lazy")
			}))

			_, err := w.ReadDocumentFunc(func(in WireIn, _ bool) error {
				got, err := in.Read(nameKey).Text()
				require.NoError(t, err)
				require.Equal(t, "lazy", got)

				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestFieldKey_NumericCode(t *testing.T) {
	w := newTestWire(t, wireCase{wireType: format.NumericBinary})
	require.NoError(t, w.WriteDocumentFunc(false, func(out WireOut) error {
		return out.Write(nameKey).Text("x")
	}))

	want := []byte{byte(format.TagFieldNumber)}
	want = w.Engine().AppendUint64(want, hash.ID("name"))
	want = append(want, byte(format.TagText), 1, 'x')
	require.Equal(t, want, w.Buffer().Bytes()[section.HeaderSize:])

	_, err := w.ReadDocumentFunc(func(in WireIn, _ bool) error {
		require.Equal(t, "x", in.Read(LazyKey(func() string { return "name" })).TextOr(""))
		require.False(t, in.Read(Key("Name")).Present())

		return nil
	})
	require.NoError(t, err)
}

func TestFieldKey_NumericReaderAcceptsNames(t *testing.T) {
	named := newTestWire(t, wireCase{wireType: format.Binary})
	require.NoError(t, named.WriteDocument(false, &testOrder{Name: "foo", Value: 42}))

	numeric := MustNew(format.NumericBinary, buffer.Wrap(named.Buffer().Bytes()), WithRegistry(named.Registry()))
	var got testOrder
	ok, err := numeric.ReadDocument(&got, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testOrder{Name: "foo", Value: 42}, got)
}
