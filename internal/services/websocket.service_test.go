package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"dirscan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanMessageResult(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), 2048)

	msg := ScanMessage(dir)

	assert.Equal(t, MessageResult, msg.Type)
	assert.Equal(t, dir, msg.Path)
	report, ok := msg.Data.(*models.ScanReport)
	require.True(t, ok)
	require.Len(t, report.Elements, 1)
	assert.Equal(t, 2.0, report.Elements[0].Size.Value)
}

func TestScanMessageErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	writeFile(t, file, 1)

	tests := map[string]struct {
		path string
		code string
	}{
		"missing path":  {path: "", code: CodeBadRequest},
		"not found":     {path: filepath.Join(dir, "missing"), code: CodePathNotFound},
		"not directory": {path: file, code: CodeNotADirectory},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			msg := ScanMessage(tt.path)
			assert.Equal(t, MessageError, msg.Type)
			assert.Equal(t, tt.code, msg.Code)
			assert.NotEmpty(t, msg.Error)
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodePathNotFound, ErrorCode(fmt.Errorf("%w: /x", ErrPathNotFound)))
	assert.Equal(t, CodeNotADirectory, ErrorCode(fmt.Errorf("%w: /x", ErrNotADirectory)))
	assert.Equal(t, CodeInternalError, ErrorCode(errors.New("disk on fire")))
	assert.Equal(t, CodeInternalError, ErrorCode(ErrInconsistentUnits))
}

func TestWebSocketHubRegisterAndStop(t *testing.T) {
	hub := NewWebSocketHub()

	client := NewClientConnection(NextClientID("127.0.0.1"), nil)
	hub.Register(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Stop()
	select {
	case <-client.Close:
	case <-time.After(time.Second):
		t.Fatal("client was not shut down when the hub stopped")
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	late := NewClientConnection(NextClientID("127.0.0.1"), nil)
	hub.Register(late)
	assert.True(t, isClosed(late))
	hub.Stop()
}

func TestWebSocketHubUnregister(t *testing.T) {
	hub := NewWebSocketHub()
	defer hub.Stop()

	client := NewClientConnection(NextClientID("10.0.0.1"), nil)
	hub.Register(client)
	hub.Unregister(client.ID)

	assert.True(t, isClosed(client))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestNextClientIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NextClientID("1.2.3.4"), NextClientID("1.2.3.4"))
}

func TestDeliverStampsTimestamp(t *testing.T) {
	client := NewClientConnection("c", nil)
	require.True(t, client.Deliver(WebSocketMessage{Type: MessagePong}))

	msg := <-client.Send
	assert.False(t, msg.Timestamp.IsZero())
}

func isClosed(client *ClientConnection) bool {
	select {
	case <-client.Close:
		return true
	case <-time.After(time.Second):
		return false
	}
}
