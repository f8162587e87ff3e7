package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAuditLine(t *testing.T) {
	line := formatAuditLine(AccountEvent{Type: EventPromoted, Username: "bob", Actor: "alice", OccurredAt: "2026-01-02T03:04:05Z"})
	assert.Equal(t, "[2026-01-02T03:04:05Z] account promoted | user=\"bob\" | actor=alice\n", line)

	line = formatAuditLine(AccountEvent{Type: EventSignedUp, Username: "carol", OccurredAt: "t"})
	assert.Equal(t, "[t] account signed_up | user=\"carol\" | actor=-\n", line)
}

func TestHandleMessageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")

	for _, ev := range []AccountEvent{
		NewAccountEvent(EventSignedUp, "alice", ""),
		NewAccountEvent(EventDeleted, "alice", ""),
	} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, handleMessage(body, path))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "account signed_up")
	assert.Contains(t, string(data), "account deleted")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	assert.Error(t, handleMessage([]byte("{"), path))
	assert.Error(t, handleMessage([]byte(`{"type":"deleted"}`), path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewAccountEventTimestamp(t *testing.T) {
	ev := NewAccountEvent(EventLoggedIn, "alice", "")
	ts, err := time.Parse(time.RFC3339, ev.OccurredAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
