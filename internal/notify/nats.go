// Package notify publishes build reports to NATS so external consumers can
// react to site builds (deploy hooks, dashboards).
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Notifier publishes build reports on a NATS subject.
type Notifier struct {
	conn    *nats.Conn
	subject string
}

// New connects to NATS and returns a Notifier publishing on subject.
func New(url, subject string) (*Notifier, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	slog.Info("Build notifier connected", "url", url, "subject", subject)
	return &Notifier{conn: conn, subject: subject}, nil
}

// PublishReport marshals the report to JSON and publishes it.
func (n *Notifier) PublishReport(report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish build report: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (n *Notifier) Close() {
	if n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
}
