package feed

// Effect is the closed set of one-shot feed signals.
type Effect interface{ isFeedEffect() }

// NoticeLevel grades a transient notification.
type NoticeLevel string

const (
	LevelInfo NoticeLevel = "info"
	LevelWarn NoticeLevel = "warn"
)

// Notice is a transient user-visible notification (a toast/snackbar in a
// real UI). It is consumed at most once and never replayed.
type Notice struct {
	Text  string      `json:"text"`
	Level NoticeLevel `json:"level"`
}

func (Notice) isFeedEffect() {}
