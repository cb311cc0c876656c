package logging_test

import (
	"errors"
	"testing"

	"dkhurana/bankledger/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerRecordsEntries(t *testing.T) {
	mock := &logging.MockLogger{}

	mock.Info("processing started", logging.Field{Key: logging.FieldFile, Value: "a.pdf"})
	mock.Warn("something odd")
	mock.Error("failed")

	require.Len(t, mock.Entries, 3)
	assert.True(t, mock.HasEntry("INFO", "processing started"))
	assert.True(t, mock.HasEntry("WARN", "something odd"))
	assert.True(t, mock.HasEntry("ERROR", "failed"))
	assert.False(t, mock.HasEntry("INFO", "never logged"))
}

func TestMockLoggerFatalDoesNotExit(t *testing.T) {
	mock := &logging.MockLogger{}
	mock.Fatal("boom")
	assert.True(t, mock.HasEntry("FATAL", "boom"))
}

func TestLogrusAdapterImplementsLogger(t *testing.T) {
	var logger logging.Logger = logging.NewLogrusAdapter("debug", "json")

	// derived loggers keep satisfying the interface
	logger = logger.WithField("component", "test")
	logger = logger.WithError(errors.New("x"))
	logger.Debug("derived logger works")
}

func TestNewLogrusAdapterBadLevelFallsBack(t *testing.T) {
	assert.NotPanics(t, func() {
		logging.NewLogrusAdapter("nonsense", "text").Info("still logs")
	})
}
