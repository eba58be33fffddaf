// Package assistant defines the reply-generation collaborator boundary.
// The core only requires that a generator eventually returns text or an
// error; it performs no retry and defines no timeout of its own.
package assistant

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// ReplyGenerator produces a reply for a prompt. Implementations may be
// slow; callers own cancellation through the context.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

var defaultResponses = []string{
	"That's an interesting point. Let me think about it...",
	"I understand your question. Based on my knowledge, I believe...",
	"Thanks for sharing. Here's what I can tell you...",
	"That's a great question! The answer depends on several factors...",
	"I've analyzed your request and here's what I found...",
}

// SimulatedGeneratorConfig tunes the canned generator.
type SimulatedGeneratorConfig struct {
	// Delay before a reply resolves. Zero means immediate.
	Delay time.Duration
	// Responses overrides the canned response pool.
	Responses []string
	// Random overrides the source used to pick a response.
	Random *rand.Rand
}

// SimulatedGenerator picks a canned response at random after an
// artificial delay, echoing the prompt. It stands in for a real model
// behind the same boundary.
type SimulatedGenerator struct {
	delay     time.Duration
	responses []string
	mu        sync.Mutex
	random    *rand.Rand
}

// NewSimulatedGenerator constructs a canned generator.
func NewSimulatedGenerator(cfg SimulatedGeneratorConfig) *SimulatedGenerator {
	responses := cfg.Responses
	if len(responses) == 0 {
		responses = defaultResponses
	}
	random := cfg.Random
	if random == nil {
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedGenerator{
		delay:     cfg.Delay,
		responses: responses,
		random:    random,
	}
}

// GenerateReply resolves after the configured delay unless the context
// is done first.
func (g *SimulatedGenerator) GenerateReply(ctx context.Context, prompt string) (string, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	response := g.responses[g.random.Intn(len(g.responses))]
	g.mu.Unlock()

	return response + " (This is a simulated reply to: " + prompt + ")", nil
}
