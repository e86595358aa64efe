package services

import (
	"context"
	"encoding/json"

	"github.com/barefootnomad/api/events"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

// Publisher is the part of *nats.Conn the forwarder uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NATSForwarder republishes bus events as JSON on <prefix>.<event name>.
type NATSForwarder struct {
	conn   Publisher
	prefix string
}

func NewNATSForwarder(conn Publisher, prefix string) *NATSForwarder {
	return &NATSForwarder{conn: conn, prefix: prefix}
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("barefoot-api"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to nats at %s", url)
	}
	return nc, nil
}

func (f *NATSForwarder) Subscribe(bus events.Bus) {
	bus.Subscribe(events.EventNewComment, f.Forward)
	bus.Subscribe(events.EventRequestStatusChanged, f.Forward)
}

func (f *NATSForwarder) Subject(name string) string {
	if f.prefix == "" {
		return name
	}
	return f.prefix + "." + name
}

func (f *NATSForwarder) Forward(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return errors.Wrapf(err, "encode %s", event.Name)
	}
	if err := f.conn.Publish(f.Subject(event.Name), data); err != nil {
		return errors.Wrapf(err, "publish %s", event.Name)
	}
	return nil
}
