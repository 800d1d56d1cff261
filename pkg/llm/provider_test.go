package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorType
	}{
		{nil, ""},
		{errors.New("insufficient_quota for org"), ErrorQuota},
		{errors.New("groq api error (status 429): slow down"), ErrorRate},
		{errors.New("context length exceeded"), ErrorContext},
		{errors.New("dial tcp: connection refused"), ErrorTransient},
		{errors.New("context deadline exceeded"), ErrorTransient},
		{errors.New("bad request"), ErrorPermanent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyError(tt.err), "%v", tt.err)
	}
}

func TestOptions(t *testing.T) {
	o := &Options{MaxTokens: 10}
	for _, opt := range []Option{WithModel("m"), WithTemperature(0.1), WithMaxTokens(0), WithMaxTokens(7)} {
		opt(o)
	}
	assert.Equal(t, "m", o.Model)
	assert.Equal(t, 0.1, o.Temperature)
	assert.Equal(t, 7, o.MaxTokens)
}
