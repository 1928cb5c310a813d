package retry

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker trips after consecutive transient failures so that a broken
// CLI installation or a wedged endpoint stops burning retry budgets.
// Non-retryable errors do not count against the breaker; they indicate
// caller mistakes rather than environment health.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// NewBreaker creates a breaker that opens after five consecutive
// transient failures and probes again after the given cooldown.
func NewBreaker[T any](name string, cooldown time.Duration) *Breaker[T] {
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	return &Breaker[T]{
		cb: gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
			Name:    name,
			Timeout: cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !Retryable(err)
			},
		}),
	}
}

// Execute runs op through the breaker. While open it fails fast with
// gobreaker.ErrOpenState.
func (b *Breaker[T]) Execute(op func() (T, error)) (T, error) {
	return b.cb.Execute(op)
}
