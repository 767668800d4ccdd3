package tables

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tsawler/gridtab/model"
)

// MergeStrategy decides whether two tables are parts of one logical table
// and builds the combined table.
type MergeStrategy interface {
	// Name returns the strategy name
	Name() string

	// Mergeable reports whether a and b continue each other
	Mergeable(a, b *model.Table) bool

	// Merge returns a new table holding a and b. Inputs are not modified.
	Merge(a, b *model.Table) *model.Table
}

// StrategyRegistry holds registered merge strategies
type StrategyRegistry struct {
	mu         sync.RWMutex
	strategies map[string]MergeStrategy
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		strategies: make(map[string]MergeStrategy),
	}
}

// Register registers a strategy under its name
func (r *StrategyRegistry) Register(s MergeStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name
func (r *StrategyRegistry) Get(name string) (MergeStrategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// List returns all registered strategy names, sorted
func (r *StrategyRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global registry
var globalStrategies = NewStrategyRegistry()

// RegisterStrategy registers a strategy globally
func RegisterStrategy(s MergeStrategy) {
	globalStrategies.Register(s)
}

// GetStrategy retrieves a globally registered strategy by name
func GetStrategy(name string) (MergeStrategy, error) {
	return globalStrategies.Get(name)
}

// ListStrategies returns all registered strategy names
func ListStrategies() []string {
	return globalStrategies.List()
}

func init() {
	// Register default strategies
	RegisterStrategy(NewGeometricStrategy(DefaultConfig()))
	RegisterStrategy(NewHeaderAwareStrategy(DefaultConfig()))
}
