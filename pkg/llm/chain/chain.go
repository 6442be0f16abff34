package chain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"edu-rag-be/pkg/llm"
)

// ErrExhausted is returned when every provider in the chain failed. Callers
// are expected to degrade to a canned response rather than surface it.
var ErrExhausted = errors.New("all generation providers failed")

// Chain is an ordered list of providers behind the single LLMProvider
// capability. A call walks the list in order: transient failures (quota,
// rate limit) advance to the next provider, anything else propagates
// immediately.
type Chain struct {
	providers []llm.LLMProvider
	logger    *log.Logger
}

var _ llm.LLMProvider = &Chain{}

func New(logger *log.Logger, providers ...llm.LLMProvider) *Chain {
	return &Chain{
		providers: providers,
		logger:    logger,
	}
}

func (c *Chain) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrExhausted
	}

	var lastErr error
	for i, provider := range c.providers {
		response, err := provider.Chat(ctx, history, opts...)
		if err == nil {
			return response, nil
		}
		if !IsTransient(err) {
			return "", err
		}
		lastErr = err
		if c.logger != nil {
			c.logger.Printf("[FAILOVER] Provider %d/%d hit a transient error, trying next: %v",
				i+1, len(c.providers), err)
		}
	}

	return "", fmt.Errorf("%w: %v", ErrExhausted, lastErr)
}

func (c *Chain) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return c.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// IsTransient classifies a provider failure. Quota and rate-limit errors are
// worth retrying on the next provider; malformed requests, auth failures and
// other errors are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "limit") ||
		strings.Contains(msg, "429")
}
