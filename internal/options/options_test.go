package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type codecConfig struct {
	maxSize   int
	bigEndian bool
	applied   []string
}

func withMaxSize(n int) Option[*codecConfig] {
	return New(func(c *codecConfig) error {
		if n <= 0 {
			return errors.New("max size must be positive")
		}
		c.maxSize = n
		c.applied = append(c.applied, "maxSize")

		return nil
	})
}

func withBigEndian() Option[*codecConfig] {
	return NoError(func(c *codecConfig) {
		c.bigEndian = true
		c.applied = append(c.applied, "bigEndian")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &codecConfig{}
		err := Apply(cfg, withBigEndian(), withMaxSize(64))

		require.NoError(t, err)
		require.True(t, cfg.bigEndian)
		require.Equal(t, 64, cfg.maxSize)
		require.Equal(t, []string{"bigEndian", "maxSize"}, cfg.applied)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &codecConfig{}
		err := Apply(cfg, withMaxSize(0), withBigEndian())

		require.Error(t, err)
		require.Contains(t, err.Error(), "max size must be positive")
		require.False(t, cfg.bigEndian)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &codecConfig{}
		require.NoError(t, Apply[*codecConfig](cfg, nil, withBigEndian()))
		require.True(t, cfg.bigEndian)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &codecConfig{}
		require.NoError(t, Apply(cfg))
		require.Empty(t, cfg.applied)
	})
}
