package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	amqpURI := amqpURIForTest(ctx, t)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	const exchange = "ledger-events"
	ch, err := SetupChannel(conn, exchange)
	require.NoError(t, err)

	consumer, err := conn.Channel()
	require.NoError(t, err)
	defer consumer.Close()

	q, err := consumer.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, consumer.QueueBind(q.Name, "report.*", exchange, false, nil))

	deliveries, err := consumer.Consume(q.Name, "", true, false, false, false, nil)
	require.NoError(t, err)

	publisher := NewPublisher(ch, exchange)
	defer publisher.Close()

	t.Run("report archived event is routed", func(t *testing.T) {
		event := ReportArchived{
			ReportID:         7,
			UserID:           3,
			PeriodStart:      "2025-03-01",
			PeriodEnd:        "2025-03-31",
			TotalCommission:  15,
			NumInstallations: 1,
		}
		require.NoError(t, publisher.Publish(ctx, RoutingReportArchived, event))

		select {
		case d := <-deliveries:
			var got ReportArchived
			require.NoError(t, json.Unmarshal(d.Body, &got))
			assert.Equal(t, event, got)
			assert.Equal(t, "application/json", d.ContentType)
			assert.Equal(t, RoutingReportArchived, d.RoutingKey)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for message")
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		bad := struct {
			Ch chan int `json:"ch"`
		}{Ch: make(chan int)}

		err := publisher.Publish(ctx, RoutingReportArchived, bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.Publish")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := publisher.Publish(cctx, RoutingReportArchived, map[string]any{"ok": true})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), RoutingReportArchived, nil))
}
