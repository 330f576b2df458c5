package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FillsEnvelope(t *testing.T) {
	e := New("cart_item_added", map[string]any{"customer_id": 1})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "cart_item_added", e.Type)
	assert.False(t, e.At.IsZero())
	assert.NotEqual(t, e.ID, New("cart_item_added", nil).ID)
}

func TestEncode(t *testing.T) {
	e := New("product_deleted", map[string]any{"product_id": 7})

	msg, err := Encode(TopicProducts, "7", e)
	require.NoError(t, err)
	assert.Equal(t, TopicProducts, msg.Topic)
	assert.Equal(t, []byte("7"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "product_deleted", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "product_deleted", decoded["type"])
	assert.Equal(t, e.ID, decoded["id"])
	assert.EqualValues(t, 7, decoded["data"].(map[string]any)["product_id"])
}

func TestEncode_UnmarshalableData(t *testing.T) {
	_, err := Encode(TopicCart, "1", New("bad", make(chan int)))
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), TopicCart, "1", New("x", nil)))
	require.NoError(t, p.Close())
}
