// Package bridge forwards a store's effect stream onto a NATS subject as
// JSON envelopes, so out-of-process tooling (debug dashboards, notification
// fan-out) can observe effects without linking against the application.
//
// The bridge is an effect consumer like any other: it receives each effect
// exactly once from the channel it drains. Point it at its own store
// subscription; do not share one effect channel between the bridge and a
// local consumer unless interleaved delivery is acceptable.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/uniflow"
	"git.home.luguber.info/inful/uniflow/internal/logfields"
)

// Envelope is the JSON wire form of a forwarded effect.
type Envelope struct {
	ID        string          `json:"id"`
	Store     string          `json:"store"`
	Effect    string          `json:"effect"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// EffectBridge manages a NATS connection and publishes effect envelopes.
type EffectBridge struct {
	conn    *nats.Conn
	subject string
	store   string
}

// New connects to NATS and returns a bridge publishing on the given subject
// under the given store name.
func New(url, subject, store string) (*EffectBridge, error) {
	if subject == "" {
		return nil, fmt.Errorf("bridge subject is required")
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("effect bridge connected",
		slog.String("url", url),
		slog.String("subject", subject),
		logfields.Store(store))

	return &EffectBridge{conn: conn, subject: subject, store: store}, nil
}

// Publish forwards a single effect.
func (b *EffectBridge) Publish(effect uniflow.Effect) error {
	data, err := json.Marshal(newEnvelope(b.store, effect))
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("failed to publish effect: %w", err)
	}

	slog.Debug("effect forwarded",
		logfields.Store(b.store),
		logfields.Effect(uniflow.TypeName(effect)),
		slog.String("subject", b.subject))
	return nil
}

// Forward drains the effect channel, publishing each effect, until the
// channel closes (store destroyed) or ctx is canceled. Publish failures are
// logged and skipped; the effect stream must keep draining.
func Forward[E uniflow.Effect](ctx context.Context, b *EffectBridge, effects <-chan E) {
	for {
		select {
		case <-ctx.Done():
			return
		case effect, ok := <-effects:
			if !ok {
				return
			}
			if err := b.Publish(effect); err != nil {
				slog.Warn("effect forward failed",
					logfields.Store(b.store),
					logfields.Error(err))
			}
		}
	}
}

// Close drains and closes the NATS connection.
func (b *EffectBridge) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

func newEnvelope(store string, effect uniflow.Effect) Envelope {
	payload, err := json.Marshal(effect)
	if err != nil {
		payload = nil
	}
	return Envelope{
		ID:        uuid.NewString(),
		Store:     store,
		Effect:    uniflow.TypeName(effect),
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}
