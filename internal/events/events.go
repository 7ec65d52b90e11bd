// Package events announces configuration changes to other processes over
// NATS. Editors and tooling that cache the ADJ tree subscribe to
// adj.config.> and refresh when the backend loads, saves or renames.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/logging"
)

// Event names. The subject is SubjectPrefix + name.
const (
	SubjectPrefix = "adj.config."

	Loaded  = "loaded"
	Saved   = "saved"
	Renamed = "renamed"
)

// Event is the JSON payload published for every change.
type Event struct {
	Event  string    `json:"event"`
	Root   string    `json:"root"`
	Boards []string  `json:"boards"`
	From   string    `json:"from,omitempty"`
	To     string    `json:"to,omitempty"`
	Time   time.Time `json:"time"`
}

// Subject returns the NATS subject for ev.
func (ev Event) Subject() string {
	return SubjectPrefix + ev.Event
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// Nop discards events. It is used when no NATS URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}

// NATSPublisher publishes events as JSON on a NATS connection.
type NATSPublisher struct {
	nc  *nats.Conn
	url string
	log *zap.Logger
}

// NewNATSPublisher connects to url and keeps reconnecting for the life of
// the process.
func NewNATSPublisher(url string, log *zap.Logger) (*NATSPublisher, error) {
	log = logging.OrNop(log)
	opts := []nats.Option{
		nats.Name("adj-valet"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc, url: url, log: log}, nil
}

// Publish encodes ev and publishes it on ev.Subject().
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.nc == nil || p.nc.IsClosed() {
		return fmt.Errorf("nats not connected")
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Event, err)
	}
	return p.nc.Publish(ev.Subject(), data)
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// New returns a NATSPublisher for url, or Nop when url is empty.
func New(url string, log *zap.Logger) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	return NewNATSPublisher(url, log)
}
