package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestConsumer_handleMessage(t *testing.T) {
	c := &Consumer{logger: zap.NewNop()}
	ctx := context.Background()

	payload, _ := json.Marshal(NotificationEvent{
		BookingID:        1,
		UserID:           2,
		BookingReference: "BK-AB12CD34",
		Title:            "Booking Confirmed",
		Message:          "Your booking BK-AB12CD34 has been confirmed. Total: $150.00",
	})

	var handled []NotificationEvent
	err := c.handleMessage(ctx, kafkaGo.Message{Value: payload}, func(ctx context.Context, event NotificationEvent) error {
		handled = append(handled, event)
		return nil
	})

	assert.NoError(t, err)
	assert.Len(t, handled, 1)
	assert.Equal(t, int64(2), handled[0].UserID)
	assert.Equal(t, "BK-AB12CD34", handled[0].BookingReference)
}

func TestConsumer_handleMessage_SkipsMalformed(t *testing.T) {
	c := &Consumer{logger: zap.NewNop()}
	ctx := context.Background()

	called := false
	err := c.handleMessage(ctx, kafkaGo.Message{Value: []byte("{not json")}, func(ctx context.Context, event NotificationEvent) error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestConsumer_handleMessage_PropagatesHandlerError(t *testing.T) {
	c := &Consumer{logger: zap.NewNop()}
	ctx := context.Background()

	payload, _ := json.Marshal(NotificationEvent{BookingID: 1, UserID: 2})
	handlerErr := errors.New("sender unavailable")
	err := c.handleMessage(ctx, kafkaGo.Message{Value: payload}, func(ctx context.Context, event NotificationEvent) error {
		return handlerErr
	})

	assert.ErrorIs(t, err, handlerErr)
}
