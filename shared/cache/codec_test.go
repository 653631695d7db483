package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	t.Run("strings are stored raw", func(t *testing.T) {
		payload, err := encode("plain")
		require.NoError(t, err)
		assert.Equal(t, []byte("plain"), payload)

		var out string
		require.NoError(t, decode(payload, &out))
		assert.Equal(t, "plain", out)
	})

	t.Run("values round trip as json", func(t *testing.T) {
		type slot struct {
			Index int    `json:"index"`
			User  string `json:"user"`
		}

		payload, err := encode([]slot{{Index: 1, User: "alice"}})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"index":1,"user":"alice"}]`, string(payload))

		var out []slot
		require.NoError(t, decode(payload, &out))
		assert.Equal(t, []slot{{Index: 1, User: "alice"}}, out)
	})

	t.Run("counter", func(t *testing.T) {
		var count int
		require.NoError(t, decode([]byte("3"), &count))
		assert.Equal(t, 3, count)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		var count int
		assert.Error(t, decode([]byte("{"), &count))
	})

	t.Run("unencodable value", func(t *testing.T) {
		_, err := encode(make(chan int))
		assert.Error(t, err)
	})
}
