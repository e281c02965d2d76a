package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"github.com/ayusman/punchmoji/internal/pose"
)

type stubDetector struct{}

func (stubDetector) Detect(*gocv.Mat) ([]pose.Pose, error) { return nil, nil }
func (stubDetector) Close() error { return nil }

func TestDetectorNotice(t *testing.T) {
	assert.Contains(t, detectorNotice(pose.NewMockDetector()), "pose_service.py")
	assert.Empty(t, detectorNotice(stubDetector{}))
	assert.Empty(t, detectorNotice(nil))
}

type stubServer struct {
	err      error
	deadline bool
}

func (s *stubServer) Shutdown(ctx context.Context) error {
	_, s.deadline = ctx.Deadline()
	return s.err
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestShutdownServer_LogsError(t *testing.T) {
	buf := captureLog(t)
	srv := &stubServer{err: errors.New("listener busy")}

	shutdownServer(srv, time.Second)

	assert.True(t, srv.deadline)
	assert.Contains(t, buf.String(), "Error shutting down server: listener busy")
}

func TestShutdownServer_Quiet(t *testing.T) {
	buf := captureLog(t)

	shutdownServer(&stubServer{}, time.Second)

	assert.Empty(t, buf.String())
}
