package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStore      = "store"
	KeyIntent     = "intent"
	KeyState      = "state"
	KeyEffect     = "effect"
	KeyDispatchID = "dispatch_id"
	KeyDurationMS = "duration_ms"
	KeyDropReason = "drop_reason"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Store(name string) slog.Attr      { return slog.String(KeyStore, name) }
func Intent(t string) slog.Attr        { return slog.String(KeyIntent, t) }
func State(t string) slog.Attr         { return slog.String(KeyState, t) }
func Effect(t string) slog.Attr        { return slog.String(KeyEffect, t) }
func DispatchID(id string) slog.Attr   { return slog.String(KeyDispatchID, id) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func DropReason(r string) slog.Attr    { return slog.String(KeyDropReason, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
