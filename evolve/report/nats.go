package report

import (
	"context"
	"encoding/json"
	"fmt"

	natsgo "github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn used to send events.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the JSON payload published for every report.
type Event struct {
	Run        string  `json:"run"`
	Generation int     `json:"generation"`
	Distance   int64   `json:"distance"`
	Best       int32   `json:"best_fitness"`
	Worst      int32   `json:"worst_fitness"`
	Mean       float64 `json:"mean_fitness"`
	StdDev     float64 `json:"fitness_stddev"`
	ElapsedMS  int64   `json:"elapsed_ms"`
}

// NewEvent flattens r into its wire form.
func NewEvent(r Report) Event {
	return Event{
		Run:        r.Run,
		Generation: r.Generation,
		Distance:   r.Distance,
		Best:       int32(r.Stats.Best),
		Worst:      int32(r.Stats.Worst),
		Mean:       r.Stats.Mean,
		StdDev:     r.Stats.StdDev,
		ElapsedMS:  r.Elapsed.Milliseconds(),
	}
}

// NATS publishes every report as an Event on Subject.
type NATS struct {
	Publisher Publisher
	Subject   string

	conn *natsgo.Conn // owned connection, set by DialNATS
}

// DialNATS connects to url and returns a reporter that owns the connection.
func DialNATS(url, subject string) (*NATS, error) {
	nc, err := natsgo.Connect(url, natsgo.Name("evolvers"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at '%s': %w", url, err)
	}
	return &NATS{Publisher: nc, Subject: subject, conn: nc}, nil
}

// Report implements Reporter.
func (n *NATS) Report(_ context.Context, r Report) error {
	payload, err := json.Marshal(NewEvent(r))
	if err != nil {
		return err
	}
	if err := n.Publisher.Publish(n.Subject, payload); err != nil {
		return fmt.Errorf("publish progress to %s: %w", n.Subject, err)
	}
	return nil
}

// Close drains the connection if the reporter owns one.
func (n *NATS) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}
