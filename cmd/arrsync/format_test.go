package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "-"},
		{"AVAILABLE", "Available"},
		{"PARTIALLY_AVAILABLE", "Partially Available"},
		{"UNKNOWN", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatStatus(tt.in))
		})
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "never", formatTimeAgo(time.Time{}))
	assert.Equal(t, "just now", formatTimeAgo(now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", formatTimeAgo(now.Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "3h ago", formatTimeAgo(now.Add(-3*time.Hour-time.Minute)))
	assert.Equal(t, "2d ago", formatTimeAgo(now.Add(-49*time.Hour)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long ...", truncate("a long title here", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestJobState(t *testing.T) {
	assert.Equal(t, "running", jobState(JobResponse{Enabled: false, Status: JobStatus{Running: true}}))
	assert.Equal(t, "disabled", jobState(JobResponse{Enabled: false}))
	assert.Equal(t, "idle", jobState(JobResponse{Enabled: true}))
	assert.Equal(t, "3/10", jobProgress(JobStatus{Running: true, Progress: 3, Total: 10}))
	assert.Equal(t, "-", jobProgress(JobStatus{}))
}
