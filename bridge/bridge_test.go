package bridge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type toastEffect struct {
	Text  string `json:"text"`
	Level string `json:"level"`
}

func TestNewEnvelope(t *testing.T) {
	env := newEnvelope("feed", toastEffect{Text: "like failed", Level: "warn"})

	require.NotEmpty(t, env.ID)
	require.Equal(t, "feed", env.Store)
	require.Equal(t, "bridge.toastEffect", env.Effect)
	require.WithinDuration(t, time.Now().UTC(), env.EmittedAt, 5*time.Second)

	var decoded toastEffect
	require.NoError(t, json.Unmarshal(env.Payload, &decoded))
	require.Equal(t, "like failed", decoded.Text)
}

func TestNewEnvelope_UniqueIDs(t *testing.T) {
	a := newEnvelope("feed", toastEffect{})
	b := newEnvelope("feed", toastEffect{})
	require.NotEqual(t, a.ID, b.ID)
}

func TestNew_RequiresSubject(t *testing.T) {
	// The subject check fails before any dial is attempted.
	_, err := New("nats://127.0.0.1:1", "", "feed")
	require.Error(t, err)
}
