package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger() (*logrus.Logger, *bytes.Buffer) {
	logger := SetupLogging()
	buf := &bytes.Buffer{}
	logger.Out = buf
	return logger, buf
}

func TestSetupLoggingWithLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, SetupLoggingWithLevel("debug").Level)
	assert.Equal(t, logrus.InfoLevel, SetupLoggingWithLevel("nonsense").Level)
}

func TestGetLogData(t *testing.T) {
	assert.Nil(t, GetLogData(context.Background()))

	logData := NewLogData(SetupLogging())
	ctx := WithLogData(context.Background(), logData)
	assert.Same(t, logData, GetLogData(ctx))
}

func TestLogData_FieldsAndTimings(t *testing.T) {
	logger, buf := newBufferedLogger()
	logData := NewLogData(logger)

	logData.AddData("accountCount", 2)
	stop := logData.AddTiming("listAccountsMs")
	stop()
	logData.Log().Info("done")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(2), line["accountCount"])
	assert.Contains(t, line, "listAccountsMs")
	assert.Equal(t, "info", line["loglevel"])
}

func TestLoggingWrapper_PerRequestLogData(t *testing.T) {
	logger, buf := newBufferedLogger()

	var seen []*LogData
	handler := LoggingWrapper("Test", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		assert.Same(t, logData, GetLogData(req.Context()))
		seen = append(seen, logData)
		w.WriteHeader(http.StatusOK)
		return nil
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.Contains(t, buf.String(), "Handler.Test.Complete")
}

func TestLoggingWrapper_Error(t *testing.T) {
	logger, buf := newBufferedLogger()

	handler := LoggingWrapper("Test", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		return errors.New("boom")
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), "Handler.Test.Error")
	assert.Contains(t, buf.String(), "boom")
}
