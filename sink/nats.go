package sink

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/parcel/types"
)

// ErrNilConnection is returned when a NATS sink is built without a connection.
var ErrNilConnection = errors.New("nats connection is nil")

// Subject returns the subject values of index are published on.
func Subject(prefix string, index int) string {
	return prefix + "." + strconv.Itoa(index)
}

// NATS publishes each value as a core NATS message on "<prefix>.<index>".
//
// Core NATS preserves per-publisher ordering on a subject, which keeps a
// worker's ascending emission order for subscribers.
type NATS struct {
	nc     *nats.Conn
	prefix string
}

var _ types.Sink = (*NATS)(nil)

// NewNATS creates a core NATS sink.
//
// Parameters:
//   - nc: Connected NATS client
//   - prefix: Subject prefix (e.g., "parcel.values")
//
// Returns:
//   - *NATS: Sink instance
//   - error: ErrNilConnection if nc is nil
func NewNATS(nc *nats.Conn, prefix string) (*NATS, error) {
	if nc == nil {
		return nil, ErrNilConnection
	}

	return &NATS{nc: nc, prefix: prefix}, nil
}

// Emit publishes value.
func (s *NATS) Emit(_ context.Context, index int, value int) error {
	if err := s.nc.Publish(Subject(s.prefix, index), strconv.AppendInt(nil, int64(value), 10)); err != nil {
		return fmt.Errorf("failed to publish value %d: %w", value, err)
	}

	return nil
}

// Flush round-trips to the server so every published value has been processed.
//
// A ctx without a deadline is bounded by nats.DefaultTimeout.
func (s *NATS) Flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, nats.DefaultTimeout)
		defer cancel()
	}

	if err := s.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush nats connection: %w", err)
	}

	return nil
}

// JetStream publishes each value to a JetStream stream and waits for the ack.
type JetStream struct {
	js     jetstream.JetStream
	prefix string
}

var _ types.Sink = (*JetStream)(nil)

// NewJetStream creates a JetStream sink.
//
// A stream capturing "<prefix>.>" must exist; publishing to a subject no
// stream binds fails with jetstream.ErrNoStreamResponse.
//
// Parameters:
//   - nc: Connected NATS client
//   - prefix: Subject prefix (e.g., "parcel.values")
//
// Returns:
//   - *JetStream: Sink instance
//   - error: ErrNilConnection, or the error from jetstream.New
func NewJetStream(nc *nats.Conn, prefix string) (*JetStream, error) {
	if nc == nil {
		return nil, ErrNilConnection
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	return &JetStream{js: js, prefix: prefix}, nil
}

// Emit publishes value and waits for the stream acknowledgement.
func (s *JetStream) Emit(ctx context.Context, index int, value int) error {
	subject := Subject(s.prefix, index)
	if _, err := s.js.Publish(ctx, subject, strconv.AppendInt(nil, int64(value), 10)); err != nil {
		return fmt.Errorf("failed to publish value %d to %s: %w", value, subject, err)
	}

	return nil
}

// Flush is a no-op; Emit is synchronous.
func (s *JetStream) Flush(_ context.Context) error {
	return nil
}

// EnsureStream creates or updates a file-backed stream capturing "<prefix>.>".
//
// Parameters:
//   - ctx: Context for the request
//   - nc: Connected NATS client
//   - name: Stream name
//   - prefix: Subject prefix used by the JetStream sink
//
// Returns:
//   - error: Error from the JetStream API
func EnsureStream(ctx context.Context, nc *nats.Conn, name, prefix string) error {
	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("failed to create jetstream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     name,
		Subjects: []string{prefix + ".>"},
	})
	if err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", name, err)
	}

	return nil
}
