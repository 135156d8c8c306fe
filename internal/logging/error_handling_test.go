package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingCloser struct {
	err error
}

func (c failingCloser) Close() error { return c.err }

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestSafeCloseWithLogging(t *testing.T) {
	logger, buf := testLogger()

	SafeCloseWithLogging(nil, logger, "close nothing")
	assert.Empty(t, buf.String(), "nil closer should not log")

	SafeCloseWithLogging(failingCloser{}, logger, "close clean")
	assert.Empty(t, buf.String(), "successful close should not log")

	SafeCloseWithLogging(failingCloser{err: errors.New("disk gone")}, logger, "close broken")
	assert.Contains(t, buf.String(), "failed to close resource")
	assert.Contains(t, buf.String(), "disk gone")
	assert.Contains(t, buf.String(), "close broken")
}

func TestHandleDeferredError(t *testing.T) {
	logger, buf := testLogger()

	var err error
	HandleDeferredError(&err, func() error { return nil }, logger, "close store")
	assert.NoError(t, err, "successful deferred op leaves the error nil")
	assert.Empty(t, buf.String())

	HandleDeferredError(&err, func() error { return errors.New("close failed") }, logger, "close store")
	assert.EqualError(t, err, "close store failed: close failed")
	assert.Contains(t, buf.String(), "deferred operation failed")
}

func TestHandleDeferredErrorKeepsOriginal(t *testing.T) {
	logger, _ := testLogger()

	original := errors.New("primary failure")
	err := original
	HandleDeferredError(&err, func() error { return errors.New("close failed") }, logger, "close store")
	assert.Equal(t, original, err, "an existing error is not overwritten")
}

func TestHandleDeferredErrorNilOp(t *testing.T) {
	logger, buf := testLogger()

	var err error
	HandleDeferredError(&err, nil, logger, "close store")
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
}
