package resilience

import (
	"context"
	"errors"
	"time"
)

// Bulkhead rejection reasons.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// DefaultMaxConcurrent is used when BulkheadConfig.MaxConcurrent is unset.
const DefaultMaxConcurrent = 16

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies the bulkhead in logs.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxConcurrent is the number of calls allowed to run at once.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWait is how long a call may queue for a slot. 0 rejects at once.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	// OnReject is called with the reason when a call is turned away.
	OnReject func(name string, reason error) `yaml:"-" mapstructure:"-"`
}

// Bulkhead limits concurrent calls with a counting semaphore.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultMaxConcurrent
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn once a slot is free. It returns ErrBulkheadFull,
// ErrBulkheadTimeout or the context error without calling fn when no slot
// could be taken.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name, err)
		}
		return err
	}
	defer b.release()
	return fn()
}

// ExecuteWithResult runs a function that returns a value.
func ExecuteWithResult[T any](b *Bulkhead, ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := b.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// IsRejection reports whether err came from the bulkhead rather than fn.
func IsRejection(err error) bool {
	return errors.Is(err, ErrBulkheadFull) || errors.Is(err, ErrBulkheadTimeout)
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) release() {
	<-b.sem
}

// InUse returns the number of slots currently taken.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}

// MaxConcurrent returns the slot count.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}
