package tree

// Config holds configuration for a Manager.
type Config struct {
	// NormalizeAfterMovement renumbers every affected sibling group
	// sequentially (1..n) after a successful ExecuteMovement, keeping
	// order values compact for display code that inspects them.
	// The canonical MoveItem and ReorderItem operations never renumber
	// regardless of this setting.
	// Default: true
	NormalizeAfterMovement bool

	// Capacity preallocates space for this many items.
	// Default: 0 (grow on demand)
	Capacity int
}

// DefaultConfig returns the defaults used by interactive list editors.
func DefaultConfig() Config {
	return Config{
		NormalizeAfterMovement: true,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.Capacity < 0 {
		c.Capacity = 0
	}
}
