package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_AddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	t.Cleanup(func() { InitWithWriter("test", &bytes.Buffer{}) })

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-7", "recruiter")

	CtxInfo(ctx, "job created", "job_id", "job-3")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job created", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-7", entry["user_id"])
	assert.Equal(t, "recruiter", entry["role"])
	assert.Equal(t, "job-3", entry["job_id"])
}

func TestFromContext_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)
	t.Cleanup(func() { InitWithWriter("test", &bytes.Buffer{}) })

	CtxWarn(context.Background(), "no fields")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasRequest := entry["request_id"]
	assert.False(t, hasRequest)
	assert.Equal(t, "WARN", entry["level"])
}
