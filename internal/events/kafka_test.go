package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_KeysByTransactionID(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{w: w, topic: "payments.events"}

	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Type: TypePaymentCreated, TransactionID: "TXN42", Status: "pending",
		Amount: 170, PlanID: 1, OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, "TXN42", string(msg.Key))
	require.Equal(t, at, msg.Time)
	require.Equal(t, []kafka.Header{{Key: "event-type", Value: []byte(TypePaymentCreated)}}, msg.Headers)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, "TXN42", got["transactionId"])
	require.Equal(t, "pending", got["status"])
	require.EqualValues(t, 170, got["amount"])
	require.EqualValues(t, 1, got["planId"])

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestKafkaPublisher_StampsMissingTime(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{w: w, topic: "t"}
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypePaymentStatusChanged, TransactionID: "T"}))
	require.False(t, w.msgs[0].Time.IsZero())
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &recordingWriter{err: boom}, topic: "payments.events"}
	err := p.Publish(context.Background(), Event{TransactionID: "T"})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "payments.events")
}

func TestNewKafkaPublisher_ConfiguresWriter(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "payments.events")
	w, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	require.Equal(t, "payments.events", w.Topic)
	require.IsType(t, &kafka.Hash{}, w.Balancer)
	require.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), Event{}))
	require.NoError(t, p.Close())
}
