package llm

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Attempt is one rung of the fallback ladder: a client, how many tries it
// gets, and the base delay between them (doubled per retry).
type Attempt struct {
	Name       string
	Client     LLMClient
	MaxRetries int
	Backoff    time.Duration
}

// FallbackClient implements LLMClient over an ordered list of attempts.
// Generate walks the ladder until one client answers; only full exhaustion
// returns an error, which the pipeline treats as a hard failure.
type FallbackClient struct {
	Attempts []Attempt

	sleep func(time.Duration) // overridable in tests
}

func NewFallbackClient(attempts ...Attempt) *FallbackClient {
	return &FallbackClient{
		Attempts: attempts,
		sleep:    time.Sleep,
	}
}

func (c *FallbackClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, attempt := range c.Attempts {
		retries := attempt.MaxRetries
		if retries < 1 {
			retries = 1
		}
		for i := 0; i < retries; i++ {
			out, err := attempt.Client.Generate(ctx, prompt)
			if err == nil {
				return out, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if i < retries-1 {
				wait := attempt.Backoff << i
				log.Printf("llm: %s failed (attempt %d/%d), retrying in %s: %v", attempt.Name, i+1, retries, wait, err)
				c.sleep(wait)
			}
		}
		log.Printf("llm: %s exhausted, moving to next model: %v", attempt.Name, lastErr)
	}

	return "", fmt.Errorf("all model attempts exhausted: %w", lastErr)
}
