package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_SendMessage(t *testing.T) {
	t.Run("topic is set per message", func(t *testing.T) {
		fw := &fakeWriter{}
		p := NewProducerWithWriter(fw, nil)

		require.NoError(t, p.SendMessage(context.Background(), "fbo_console_audit", []byte("s1"), []byte(`{"action":"scan"}`)))
		require.NoError(t, p.Close())

		require.Len(t, fw.msgs, 1)
		assert.Equal(t, "fbo_console_audit", fw.msgs[0].Topic)
		assert.Equal(t, []byte("s1"), fw.msgs[0].Key)
		assert.JSONEq(t, `{"action":"scan"}`, string(fw.msgs[0].Value))
		assert.True(t, fw.closed)
	})

	t.Run("write failure is wrapped", func(t *testing.T) {
		writeErr := errors.New("leader not available")
		p := NewProducerWithWriter(&fakeWriter{err: writeErr}, nil)

		err := p.SendMessage(context.Background(), "fbo_console_audit", nil, nil)
		assert.ErrorIs(t, err, writeErr)
	})
}

type fakeReader struct {
	msgs []kafka.Message
	errs []error
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return kafka.Message{}, err
	}
	if len(f.msgs) > 0 {
		m := f.msgs[0]
		f.msgs = f.msgs[1:]
		return m, nil
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) Close() error { return nil }

func TestConsumer_Run(t *testing.T) {
	reader := &fakeReader{
		errs: []error{errors.New("coordinator loading")},
		msgs: []kafka.Message{{Key: []byte("s1"), Value: []byte("a")}, {Key: []byte("s2"), Value: []byte("b")}},
	}
	c := NewConsumerWithReader(reader, nil)
	c.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var seen []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx, func(_ context.Context, m kafka.Message) error {
			seen = append(seen, string(m.Value))
			if len(seen) == 2 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Equal(t, []string{"a", "b"}, seen)
	require.NoError(t, c.Close())
}
