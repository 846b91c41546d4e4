package sentry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoracoin/pkg/errors"
)

const testKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestScrubber(t *testing.T) {
	scrub := scrubber([]string{"", testKey})
	require.NotNil(t, scrub)

	event := &sentry.Event{
		Message: "bad key " + testKey,
		Exception: []sentry.Exception{
			{Type: "*errors.errorString", Value: "decode " + testKey[2:] + " failed"},
		},
		Breadcrumbs: []*sentry.Breadcrumb{{Message: "tool call"}},
	}

	out := scrub(event, nil)
	assert.Equal(t, "bad key [redacted]", out.Message)
	assert.Equal(t, "decode [redacted] failed", out.Exception[0].Value)
	assert.Equal(t, "tool call", out.Breadcrumbs[0].Message)
}

func TestScrubberWithoutSecrets(t *testing.T) {
	assert.Nil(t, scrubber(nil))
	assert.Nil(t, scrubber([]string{""}))
}

func TestConvertLevel(t *testing.T) {
	tests := []struct {
		in   errors.Level
		want sentry.Level
	}{
		{errors.LevelDebug, sentry.LevelDebug},
		{errors.LevelWarning, sentry.LevelWarning},
		{errors.LevelFatal, sentry.LevelFatal},
		{errors.Level("other"), sentry.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, convertLevel(tt.in))
		})
	}
}
