package main

import (
	"context"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"

	"github.com/arloliu/parcel"
	"github.com/arloliu/parcel/internal/natsutil"
	"github.com/arloliu/parcel/sink"
	"github.com/arloliu/parcel/types"
)

// openSink builds the output sink selected by cfg. The returned close
// function releases the NATS connection, if any.
func openSink(cfg parcel.SinkConfig, stdout io.Writer) (types.Sink, func(), error) {
	switch cfg.Kind {
	case parcel.SinkNATS, parcel.SinkJetStream:
		nc, err := connect(cfg.NATSURL)
		if err != nil {
			return nil, nil, err
		}

		var out types.Sink
		if cfg.Kind == parcel.SinkJetStream {
			out, err = sink.NewJetStream(nc, cfg.Subject)
		} else {
			out, err = sink.NewNATS(nc, cfg.Subject)
		}
		if err != nil {
			nc.Close()
			return nil, nil, err
		}

		return out, nc.Close, nil
	default:
		return sink.NewWriter(stdout), func() {}, nil
	}
}

// ensureStream creates the JetStream stream backing the jetstream sink.
func ensureStream(ctx context.Context, cfg parcel.SinkConfig) error {
	nc, err := connect(cfg.NATSURL)
	if err != nil {
		return err
	}
	defer nc.Close()

	return sink.EnsureStream(ctx, nc, cfg.Stream, cfg.Subject)
}

func connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("parcel"))
	if err != nil {
		if natsutil.IsConnectivityError(err) {
			return nil, fmt.Errorf("failed to connect to NATS at %s (is the server running?): %w", url, err)
		}

		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return nc, nil
}
