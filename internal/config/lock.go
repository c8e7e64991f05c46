package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Backoff strategies for lock acquisition retries
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// LockConfig controls the per-account resource lock
type LockConfig struct {
	TTL           time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	Backoff       string
	Jitter        bool
	KeyPrefix     string
}

func setLockDefaults() {
	viper.SetDefault("lock.ttl", 15*time.Second)
	viper.SetDefault("lock.max_attempts", 10)
	viper.SetDefault("lock.retry_delay", 100*time.Millisecond)
	viper.SetDefault("lock.max_retry_delay", time.Second)
	viper.SetDefault("lock.backoff", BackoffFixed)
	viper.SetDefault("lock.jitter", false)
	viper.SetDefault("lock.key_prefix", "account-lock:")
}

// LoadLockConfig reads lock settings from viper, applying defaults
func LoadLockConfig() *LockConfig {
	setLockDefaults()

	return &LockConfig{
		TTL:           viper.GetDuration("lock.ttl"),
		MaxAttempts:   viper.GetInt("lock.max_attempts"),
		RetryDelay:    viper.GetDuration("lock.retry_delay"),
		MaxRetryDelay: viper.GetDuration("lock.max_retry_delay"),
		Backoff:       viper.GetString("lock.backoff"),
		Jitter:        viper.GetBool("lock.jitter"),
		KeyPrefix:     viper.GetString("lock.key_prefix"),
	}
}

// DefaultLockConfig returns the defaults without touching viper
func DefaultLockConfig() *LockConfig {
	return &LockConfig{
		TTL:           15 * time.Second,
		MaxAttempts:   10,
		RetryDelay:    100 * time.Millisecond,
		MaxRetryDelay: time.Second,
		Backoff:       BackoffFixed,
		KeyPrefix:     "account-lock:",
	}
}

func (c *LockConfig) Validate() error {
	if c.TTL <= 0 {
		return errors.New("lock ttl must be greater than 0")
	}
	if c.MaxAttempts < 1 {
		return errors.New("lock max attempts must be at least 1")
	}
	if c.RetryDelay < 0 {
		return errors.New("lock retry delay cannot be negative")
	}
	switch c.Backoff {
	case BackoffFixed:
	case BackoffExponential:
		if c.MaxRetryDelay < c.RetryDelay {
			return errors.New("lock max retry delay must not be below retry delay")
		}
	default:
		return fmt.Errorf("unknown lock backoff strategy %q", c.Backoff)
	}
	return nil
}
