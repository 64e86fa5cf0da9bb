package types

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Config holds the process-wide runtime tunables a running server exposes to
// the SET admin verb. All fields have sane defaults matching the original
// table's constants; a running server mutates them under Apply, which is
// safe to call concurrently with the getters.
type Config struct {
	mu sync.RWMutex

	commandTimeout time.Duration
	shoeMinPercent int
	gameWaitTime   time.Duration
	startCurrency  int64
	minimumDecks   int
	showComms      bool
}

// Defaults mirror the reference table's globals: a 1s command timeout, a
// shoe reshuffled once it drops under 20% full, a 10ms pause between
// rounds, new players staked with 10000 currency, and a 6-deck minimum shoe.
func NewDefaultConfig() *Config {
	return &Config{
		commandTimeout: time.Second,
		shoeMinPercent: 20,
		gameWaitTime:   10 * time.Millisecond,
		startCurrency:  10000,
		minimumDecks:   6,
		showComms:      false,
	}
}

func (c *Config) CommandTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commandTimeout
}

func (c *Config) ShoeMinPercent() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shoeMinPercent
}

func (c *Config) GameWaitTime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameWaitTime
}

func (c *Config) StartCurrency() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startCurrency
}

func (c *Config) MinimumDecks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minimumDecks
}

func (c *Config) ShowComms() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.showComms
}

// Apply mutates the named parameter per the SET admin verb (spec §6):
// TIMEOUT, SHOE, WAIT, START, DECKS, COMMS. Unknown params are rejected.
func (c *Config) Apply(param, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch param {
	case "TIMEOUT":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("bad TIMEOUT value %q: %w", value, err)
		}
		c.commandTimeout = time.Duration(v * float64(time.Second))
	case "SHOE":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad SHOE value %q: %w", value, err)
		}
		c.shoeMinPercent = v
	case "WAIT":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("bad WAIT value %q: %w", value, err)
		}
		c.gameWaitTime = time.Duration(v * float64(time.Second))
	case "START":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("bad START value %q: %w", value, err)
		}
		c.startCurrency = v
	case "DECKS":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad DECKS value %q: %w", value, err)
		}
		c.minimumDecks = v
	case "COMMS":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad COMMS value %q: %w", value, err)
		}
		c.showComms = v != 0
	default:
		return fmt.Errorf("unknown SET parameter %q", param)
	}
	return nil
}
