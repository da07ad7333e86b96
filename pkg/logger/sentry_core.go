package logger

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

// fields promoted to sentry tags so events can be grouped per module, network and upstream
var sentryTagKeys = map[string]struct{}{
	"mod":        {},
	"network":    {},
	"upstream":   {},
	"request_id": {},
}

const sentryFlushTimeout = 5 * time.Second

// SentryCore forwards entries at or above level to the global sentry hub.
type SentryCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

func NewSentryCore(level zapcore.Level) zapcore.Core {
	return &SentryCore{LevelEnabler: level}
}

func (c *SentryCore) With(f []zapcore.Field) zapcore.Core {
	fields := make([]zapcore.Field, 0, len(c.fields)+len(f))
	fields = append(fields, c.fields...)
	fields = append(fields, f...)
	return &SentryCore{LevelEnabler: c.LevelEnabler, fields: fields}
}

func (c *SentryCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *SentryCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	event := newSentryEvent(ent, all)
	sentry.CaptureEvent(event)

	if ent.Level > zapcore.ErrorLevel {
		return c.Sync()
	}
	return nil
}

func (c *SentryCore) Sync() error {
	sentry.Flush(sentryFlushTimeout)
	return nil
}

func newSentryEvent(ent zapcore.Entry, fields []zapcore.Field) *sentry.Event {
	tags, extra := splitSentryFields(fields)

	event := sentry.NewEvent()
	event.Level = sentryLevel(ent.Level)
	event.Message = ent.Message
	event.Timestamp = ent.Time
	event.Logger = ent.LoggerName
	event.Tags = tags
	event.Extra = extra
	if ent.Caller.Defined {
		extra["caller"] = ent.Caller.TrimmedPath()
	}
	// group by module and message rather than by the variable extras
	if mod, ok := tags["mod"]; ok {
		event.Fingerprint = []string{mod, ent.Message}
	}
	return event
}

func splitSentryFields(fields []zapcore.Field) (map[string]string, map[string]interface{}) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		// stringers may panic on nil receivers
		if f.Type == zapcore.StringerType {
			continue
		}
		f.AddTo(enc)
	}

	tags := make(map[string]string)
	extra := make(map[string]interface{}, len(enc.Fields))
	for k, v := range enc.Fields {
		if _, ok := sentryTagKeys[k]; ok {
			tags[k] = fmt.Sprint(v)
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		extra[k] = v
	}
	return tags, extra
}

func sentryLevel(lvl zapcore.Level) sentry.Level {
	switch lvl {
	case zapcore.DebugLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	default:
		return sentry.LevelFatal
	}
}
