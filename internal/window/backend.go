package window

import "log/slog"

// LogBackend records window commands in the log. It is the backend of a
// headless shell where surfaces are plain browser tabs.
type LogBackend struct {
	log *slog.Logger
}

func NewLogBackend(l *slog.Logger) *LogBackend {
	if l == nil {
		l = slog.Default()
	}
	return &LogBackend{log: l.With("component", "window")}
}

func (b *LogBackend) Open(w Window) error {
	b.log.Info("window open", "id", w.ID, "index", w.Index, "url", w.URL)
	return nil
}

func (b *LogBackend) Close(id int) error {
	b.log.Info("window close", "id", id)
	return nil
}

func (b *LogBackend) Focus(id int) error {
	b.log.Debug("window focus", "id", id)
	return nil
}

func (b *LogBackend) Restore(id int) error {
	b.log.Debug("window restore", "id", id)
	return nil
}

func (b *LogBackend) SetMaximized(id int, maximized bool) error {
	b.log.Debug("window maximize", "id", id, "maximized", maximized)
	return nil
}

func (b *LogBackend) SetAudioMuted(id int, muted bool) error {
	b.log.Debug("window audio", "id", id, "muted", muted)
	return nil
}
