package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	return nil
}

func newTestProducer(w *recordingWriter) *Producer {
	return &Producer{
		writer: w,
		logger: ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}),
		topic:  "mint-exchange-events",
	}
}

func TestProducer_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), Message{
		Key:     "ws-1",
		Value:   map[string]any{"type": "bundle.exported", "cocktails": 2},
		Headers: map[string]string{"type": "bundle.exported"},
	})
	require.NoError(t, err)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, []byte("ws-1"), msg.Key)
	assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte("bundle.exported")}}, msg.Headers)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "bundle.exported", body["type"])
	assert.Equal(t, 2.0, body["cocktails"])
}

func TestProducer_PublishError(t *testing.T) {
	p := newTestProducer(&recordingWriter{err: errors.New("leader not available")})

	err := p.Publish(context.Background(), Message{Key: "ws-1", Value: "x"})
	assert.EqualError(t, err, "leader not available")
}

func TestProducer_PublishUnencodable(t *testing.T) {
	p := newTestProducer(&recordingWriter{})

	err := p.Publish(context.Background(), Message{Key: "ws-1", Value: make(chan int)})
	assert.ErrorContains(t, err, "failed to marshal message")
}

func TestCompressionCodec(t *testing.T) {
	assert.Equal(t, kafka.Gzip, compressionCodec("gzip"))
	assert.Equal(t, kafka.Zstd, compressionCodec("zstd"))
	assert.Equal(t, kafka.Compression(0), compressionCodec("none"))
	assert.Equal(t, kafka.Snappy, compressionCodec(""))
}
