package log

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// TeeHook copies every fired log entry to an emit callback, so the server's
// own logs can be forwarded through the same pipeline as producer logs. The
// callback must never block and must never log, or a full queue would feed
// back into the hook.
type TeeHook struct {
	emit      func(timestampMs int64, message string)
	formatter logrus.Formatter
}

func NewTeeHook(emit func(timestampMs int64, message string)) *TeeHook {
	return &TeeHook{
		emit: emit,
		formatter: &logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		},
	}
}

func (h *TeeHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *TeeHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.emit(entry.Time.UnixMilli(), strings.TrimRight(string(line), "\n"))
	return nil
}
