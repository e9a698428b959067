package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/deskhand/internal/fields"
)

func TestResult_String(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
		failed bool
	}{
		{
			name:   "success",
			result: Success("✅ Email sent successfully. ID: abc"),
			want:   "✅ Email sent successfully. ID: abc",
		},
		{
			name:   "formatted success",
			result: Successf("💬 Comment added to %s.", "PC-1"),
			want:   "💬 Comment added to PC-1.",
		},
		{
			name:   "failure with message",
			result: Failure("Error sending email", errors.New("quota exceeded")),
			want:   "❌ Error sending email: quota exceeded",
			failed: true,
		},
		{
			name:   "failure without message",
			result: Failure("", errors.New("quota exceeded")),
			want:   "❌ quota exceeded",
			failed: true,
		},
		{
			name:   "failure with explicit text",
			result: FailureText("error: please send two numbers", errors.New("bad input")),
			want:   "❌ error: please send two numbers",
			failed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.String())
			assert.Equal(t, tt.failed, tt.result.Failed())
		})
	}
}

func TestResult_Kind(t *testing.T) {
	assert.Equal(t, ErrorKind(""), Success("ok").Kind())
	assert.Equal(t, KindParse, Failure("Error", &fields.MissingFieldError{Fields: []string{"To"}}).Kind())
}
