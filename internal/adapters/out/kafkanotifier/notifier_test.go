package kafkanotifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orderdispatch/internal/adapters/out/kafkanotifier"
	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct{ mock.Mock }

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func TestNotifier_PublishWritesOneMessagePerEvent(t *testing.T) {
	writer := new(MockMessageWriter)
	notifier := kafkanotifier.NewNotifier(writer)

	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	loc, err := kernel.NewLocation(52.52, 13.405)
	require.NoError(t, err)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	err = notifier.Publish(t.Context(),
		ports.DispatchEvent{Type: ports.OrderOffered, OrderID: orderID, DriverID: &driverID, OccurredAt: at},
		ports.DispatchEvent{Type: ports.CustomerLocationChanged, OrderID: orderID, DriverID: &driverID, Location: &loc, OccurredAt: at},
	)

	require.NoError(t, err)
	require.Len(t, written, 2)

	assert.Equal(t, orderID.String(), string(written[0].Key))
	assert.Equal(t, []kafka.Header{{Key: "event-type", Value: []byte("order.offered")}}, written[0].Headers)

	var body map[string]any
	require.NoError(t, json.Unmarshal(written[1].Value, &body))
	assert.Equal(t, "order.customer_location_changed", body["type"])
	assert.Equal(t, driverID.String(), body["driverId"])
	assert.Equal(t, map[string]any{"lat": 52.52, "lng": 13.405}, body["location"])
	assert.Equal(t, "2025-03-01T12:00:00Z", body["occurredAt"])
	writer.AssertExpectations(t)
}

func TestNotifier_RejectedEventOmitsDriver(t *testing.T) {
	writer := new(MockMessageWriter)
	notifier := kafkanotifier.NewNotifier(writer)

	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	require.NoError(t, notifier.Publish(t.Context(), ports.DispatchEvent{
		Type:       ports.OrderRejected,
		OrderID:    kernel.NewUUID(),
		OccurredAt: time.Now(),
	}))

	require.Len(t, written, 1)
	assert.NotContains(t, string(written[0].Value), "driverId")
	assert.NotContains(t, string(written[0].Value), "location")
}

func TestNotifier_WriterFailure(t *testing.T) {
	writer := new(MockMessageWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	err := kafkanotifier.NewNotifier(writer).Publish(t.Context(), ports.DispatchEvent{
		Type:    ports.OrderRejected,
		OrderID: kernel.NewUUID(),
	})

	require.ErrorContains(t, err, "leader not available")
}

func TestNotifier_NoEventsSkipsWriter(t *testing.T) {
	writer := new(MockMessageWriter)

	require.NoError(t, kafkanotifier.NewNotifier(writer).Publish(t.Context()))
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}
