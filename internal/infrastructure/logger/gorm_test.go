package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), recorded
}

func traceQuery(l *GormLogger, ctx context.Context, begin time.Time, err error) {
	l.Trace(ctx, begin, func() (string, int64) {
		return "SELECT * FROM imprest_transactions", 5
	}, err)
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	clone, ok := gormLog.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Warn, clone.logLevel)
	assert.Equal(t, gormlogger.Info, gormLog.logLevel, "LogMode must not mutate the receiver")
}

func TestGormLogger_LeveledMessages(t *testing.T) {
	t.Run("printf-style messages pass through at matching levels", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)

		gormLog.Info(context.Background(), "replayed %d statements", 3)
		gormLog.Warn(context.Background(), "pool nearly exhausted")
		gormLog.Error(context.Background(), "migration table missing")

		entries := recorded.All()
		require.Len(t, entries, 3)
		assert.Equal(t, "replayed 3 statements", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	})

	t.Run("silent level suppresses everything", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

		gormLog.Info(context.Background(), "replayed %d statements", 3)
		gormLog.Warn(context.Background(), "pool nearly exhausted")
		gormLog.Error(context.Background(), "migration table missing")
		traceQuery(gormLog, context.Background(), time.Now(), nil)

		assert.Empty(t, recorded.All())
	})
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("query errors are logged with the statement", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)

		traceQuery(gormLog, context.Background(), time.Now(), assert.AnError)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	})

	t.Run("record-not-found is not an error", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)

		traceQuery(gormLog, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("slow queries warn past the threshold", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn)

		traceQuery(gormLog, context.Background(), time.Now().Add(-time.Second), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "SLOW SQL")
	})

	t.Run("normal queries log at debug", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)

		traceQuery(gormLog, context.Background(), time.Now(), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	})

	t.Run("request ID from the context is attached", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)

		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-ledger-7")
		traceQuery(gormLog, ctx, time.Now(), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-ledger-7", fieldValue(t, entries[0], "request_id"))
	})
}

func TestMapGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}

	for level, want := range cases {
		assert.Equal(t, want, MapGormLogLevel(level), "level %q", level)
	}
}
