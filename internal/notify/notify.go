// Package notify publishes ledger change notifications so report clients know
// when to refresh. Delivery is best-effort and happens after commit.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tinoosan/hacc/internal/dates"
)

// DefaultChannel is the channel transaction changes are published on.
const DefaultChannel = "hacc_transactions"

// Operations carried in a Message.
const (
	OpSave   = "save"
	OpDelete = "delete"
)

var publishTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "hacc",
		Name:      "notify_publish_total",
		Help:      "Change notifications published, by result",
	},
	[]string{"result"},
)

// Publisher delivers a payload on a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Message is the payload of a transaction change.
type Message struct {
	TransID uuid.UUID `json:"tid"`
	Date    string    `json:"trandate"`
	Op      string    `json:"op"`
}

// Notifier publishes transaction changes on one channel.
type Notifier struct {
	pub     Publisher
	channel string
	log     *slog.Logger
}

// New returns a notifier; an empty channel uses DefaultChannel.
func New(pub Publisher, channel string, logger *slog.Logger) *Notifier {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{pub: pub, channel: channel, log: logger}
}

// Channel is the channel this notifier publishes on.
func (n *Notifier) Channel() string { return n.channel }

// TransactionChanged publishes a change keyed by the transaction date.
// Failures are logged, never returned: the write has already committed.
func (n *Notifier) TransactionChanged(ctx context.Context, op string, tid uuid.UUID, date time.Time) {
	if n == nil || n.pub == nil {
		return
	}
	payload, _ := json.Marshal(Message{TransID: tid, Date: dates.Format(date), Op: op})
	if err := n.pub.Publish(ctx, n.channel, payload); err != nil {
		publishTotal.WithLabelValues("error").Inc()
		n.log.Warn("change notification failed", "channel", n.channel, "tid", tid.String(), "err", err)
		return
	}
	publishTotal.WithLabelValues("ok").Inc()
	n.log.Debug("change notification published", "channel", n.channel, "tid", tid.String(), "op", op)
}

// Recorder keeps published messages in memory for inspection.
type Recorder struct {
	mu   sync.Mutex
	msgs []Recorded
}

// Recorded is one message kept by a Recorder.
type Recorded struct {
	Channel string
	Payload []byte
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, channel string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Recorded{Channel: channel, Payload: append([]byte(nil), payload...)})
	return nil
}

// Messages returns the decoded messages published so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, 0, len(r.msgs))
	for _, m := range r.msgs {
		var msg Message
		if err := json.Unmarshal(m.Payload, &msg); err == nil {
			out = append(out, msg)
		}
	}
	return out
}

// Recorded returns the raw messages published so far.
func (r *Recorder) Recorded() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.msgs...)
}
