package assistant

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestSimulatedGeneratorEchoesPrompt(t *testing.T) {
	generator := NewSimulatedGenerator(SimulatedGeneratorConfig{
		Random: rand.New(rand.NewSource(1)),
	})

	reply, err := generator.GenerateReply(context.Background(), "what is a monad?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "what is a monad?") {
		t.Fatalf("reply should echo the prompt, got %q", reply)
	}
}

func TestSimulatedGeneratorPicksFromConfiguredPool(t *testing.T) {
	generator := NewSimulatedGenerator(SimulatedGeneratorConfig{
		Responses: []string{"Only answer."},
		Random:    rand.New(rand.NewSource(1)),
	})

	reply, err := generator.GenerateReply(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(reply, "Only answer.") {
		t.Fatalf("expected configured response, got %q", reply)
	}
}

func TestSimulatedGeneratorHonorsContextCancellation(t *testing.T) {
	generator := NewSimulatedGenerator(SimulatedGeneratorConfig{
		Delay:  time.Minute,
		Random: rand.New(rand.NewSource(1)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := generator.GenerateReply(ctx, "hi"); err == nil {
		t.Fatalf("expected a context error")
	}
}

func TestSimulatedGeneratorFailsFastOnDoneContextWithoutDelay(t *testing.T) {
	generator := NewSimulatedGenerator(SimulatedGeneratorConfig{
		Random: rand.New(rand.NewSource(1)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := generator.GenerateReply(ctx, "hi"); err == nil {
		t.Fatalf("expected a context error")
	}
}
