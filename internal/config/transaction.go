package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// TransactionConfig holds balance engine settings
type TransactionConfig struct {
	// CancelWindowYears is how many calendar years back a USE may be cancelled
	CancelWindowYears int
	// UseDelay simulates slow downstream processing inside the locked section
	UseDelay time.Duration
}

// LoadTransactionConfig reads transaction settings from viper, applying defaults
func LoadTransactionConfig() *TransactionConfig {
	viper.SetDefault("transaction.cancel_window_years", 1)
	viper.SetDefault("transaction.use_delay", time.Duration(0))

	return &TransactionConfig{
		CancelWindowYears: viper.GetInt("transaction.cancel_window_years"),
		UseDelay:          viper.GetDuration("transaction.use_delay"),
	}
}

// DefaultTransactionConfig returns the defaults without touching viper
func DefaultTransactionConfig() *TransactionConfig {
	return &TransactionConfig{CancelWindowYears: 1}
}

// Validate checks the config against the lock it will run under. The locked
// section must finish well inside the lock ttl or a second holder can get in.
func (c *TransactionConfig) Validate(lock *LockConfig) error {
	if c.CancelWindowYears < 1 {
		return fmt.Errorf("transaction cancel window must be at least one year")
	}
	if c.UseDelay < 0 {
		return fmt.Errorf("transaction use delay cannot be negative")
	}
	if c.UseDelay >= lock.TTL {
		return fmt.Errorf("transaction use delay %s must be below lock ttl %s", c.UseDelay, lock.TTL)
	}
	return nil
}
