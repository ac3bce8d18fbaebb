package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNormalizesNegativeSentID(t *testing.T) {
	p := New(1, -5, 0, 3, time.Time{})
	assert.Equal(t, DocumentLevel, p.SentID)
	assert.True(t, p.IsDocumentLevel())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Run("WithDate", func(t *testing.T) {
		date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		list := List{
			New(1, 2, 10, 15, date),
			New(1, 3, 0, 5, time.Time{}),
		}
		encoded := Encode(list)
		decoded, err := Decode(encoded)
		assert.NoError(t, err)
		assert.Len(t, decoded, 2)
		assert.Equal(t, 1, decoded[0].DocID)
		assert.Equal(t, 2, decoded[0].SentID)
		assert.Equal(t, 10, decoded[0].Begin)
		assert.Equal(t, 15, decoded[0].End)
		assert.True(t, date.Equal(decoded[0].Date))
		assert.True(t, decoded[1].Date.IsZero())
	})

	t.Run("Empty", func(t *testing.T) {
		decoded, err := Decode(Encode(nil))
		assert.NoError(t, err)
		assert.Len(t, decoded, 0)
	})
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 1})
	assert.Error(t, err)
}

func TestListAppend(t *testing.T) {
	var l List
	l = l.Append(New(1, 0, 0, 1, time.Time{}))
	assert.Len(t, l, 1)
}
