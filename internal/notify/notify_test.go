package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferCollectsInOrder(t *testing.T) {
	ctx, buf := WithBuffer(context.Background())

	sink := ContextSink{}
	sink.Notify(ctx, SeveritySuccess, "This item was added to your cart.")
	sink.Notify(ctx, SeverityInfo, "This item quantity was updated.")

	msgs := buf.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SeveritySuccess, msgs[0].Level)
	assert.Equal(t, "This item was added to your cart.", msgs[0].Text)
	assert.Equal(t, SeverityInfo, msgs[1].Level)
}

func TestFromContextWithoutBuffer(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	// Notifying without a buffer must not panic.
	ContextSink{}.Notify(context.Background(), SeverityError, "dropped")
}
