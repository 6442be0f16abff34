package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-rag-be/pkg/llm"
)

type stubProvider struct {
	answer string
	err    error
	calls  int
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	return s.answer, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestChain_FirstProviderWins(t *testing.T) {
	primary := &stubProvider{answer: "from primary"}
	secondary := &stubProvider{answer: "from secondary"}
	c := New(nil, primary, secondary)

	response, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "from primary", response)
	assert.Equal(t, 0, secondary.calls, "secondary should not be touched on success")
}

func TestChain_TransientFailureAdvances(t *testing.T) {
	primary := &stubProvider{err: errors.New("429 Too Many Requests")}
	secondary := &stubProvider{answer: "from secondary"}
	c := New(nil, primary, secondary)

	response, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "from secondary", response)
	assert.Equal(t, 1, primary.calls)
}

func TestChain_NonTransientFailurePropagates(t *testing.T) {
	authErr := errors.New("invalid api key")
	primary := &stubProvider{err: authErr}
	secondary := &stubProvider{answer: "from secondary"}
	c := New(nil, primary, secondary)

	_, err := c.Generate(context.Background(), "hello")
	require.Error(t, err)

	assert.Equal(t, authErr, err)
	assert.Equal(t, 0, secondary.calls)
}

func TestChain_AllTransientFailuresExhaust(t *testing.T) {
	primary := &stubProvider{err: errors.New("quota exceeded")}
	secondary := &stubProvider{err: errors.New("rate limit hit")}
	c := New(nil, primary, secondary)

	_, err := c.Generate(context.Background(), "hello")
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestChain_NoProviders(t *testing.T) {
	c := New(nil)

	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err       error
		transient bool
	}{
		{nil, false},
		{errors.New("Quota exceeded for project"), true},
		{errors.New("rate limit reached"), true},
		{errors.New("request limit hit"), true},
		{errors.New("got status 429"), true},
		{errors.New("invalid api key"), false},
		{errors.New("context deadline exceeded"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.transient, IsTransient(tc.err), "error: %v", tc.err)
	}
}
