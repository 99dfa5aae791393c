package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// fieldEncoderConfig renders only the structured fields of an entry, as one line of JSON.
var fieldEncoderConfig = zapcore.EncoderConfig{SkipLineEnding: true}

type testAppender struct {
	tb testing.TB
}

// NewTestAppender returns an appender that logs through tb.Log, so each line shows up under the
// test that produced it.
func NewTestAppender(tb testing.TB) Appender {
	return &testAppender{tb}
}

// Write logs the entry as tab separated columns: time, level, logger, caller, message, fields.
func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	var line strings.Builder
	line.WriteString(entry.Time.Format(DefaultTimeFormatStr))
	for _, col := range []string{strings.ToUpper(entry.Level.String()), entry.LoggerName} {
		line.WriteByte('\t')
		line.WriteString(col)
	}
	if entry.Caller.Defined {
		line.WriteByte('\t')
		line.WriteString(entry.Caller.TrimmedPath())
	}
	line.WriteByte('\t')
	line.WriteString(entry.Message)

	var err error
	if len(fields) > 0 {
		buf, encErr := zapcore.NewJSONEncoder(fieldEncoderConfig).EncodeEntry(zapcore.Entry{}, fields)
		if encErr == nil {
			line.WriteByte('\t')
			line.WriteString(buf.String())
			buf.Free()
		}
		err = encErr
	}
	tapp.tb.Log(line.String())
	return err
}

// Sync is a no-op.
func (tapp *testAppender) Sync() error {
	return nil
}
