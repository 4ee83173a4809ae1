package model

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
)

const (
	DefaultBucket = "default"
	// WorkoutSlot is the only slot of an exercise pool.
	WorkoutSlot = "workout"
)

var (
	ErrPoolNotFound     = errors.WithMessage(domain.ErrNotFound, "goal pool")
	ErrSlotNotFound     = errors.WithMessage(domain.ErrNotFound, "pool slot")
	ErrNoCandidates     = errors.WithMessage(domain.ErrNotFound, "candidates")
	ErrInvalidCatalog   = errors.WithMessage(domain.ErrInvalidInput, "pool catalog")
	ErrNotEnoughChoices = errors.WithMessage(domain.ErrInsufficientCandidates, "not enough items to draw from")
)

// Buckets maps a bucket key ("default", "noEgg", ...) to its candidate items.
type Buckets map[string][]string

// Pool holds every slot (meal type or workout) available for one goal.
type Pool struct {
	Goal  string
	Slots map[string]Buckets
}

// Catalog is the immutable set of pools the planner draws from, keyed by goal.
type Catalog struct {
	Diet     map[string]Pool
	Exercise map[string]Pool
}

func NormalizeGoal(goal string) string {
	return strings.ToLower(strings.TrimSpace(goal))
}

func (c Catalog) DietPool(goal string) (Pool, error) {
	return lookupPool(c.Diet, goal)
}

func (c Catalog) ExercisePool(goal string) (Pool, error) {
	return lookupPool(c.Exercise, goal)
}

// Validate checks that every pool carries the slots plans are built from, that
// every slot has a non-empty default bucket and that every other bucket key is
// one the restriction table can produce.
func (c Catalog) Validate() error {
	if err := validatePools(c.Diet, DietShape.Slots); err != nil {
		return errors.WithMessage(err, "diet")
	}
	if err := validatePools(c.Exercise, []string{WorkoutSlot}); err != nil {
		return errors.WithMessage(err, "exercise")
	}
	return nil
}

func lookupPool(pools map[string]Pool, goal string) (Pool, error) {
	pool, ok := pools[NormalizeGoal(goal)]
	if !ok {
		return Pool{}, errors.Wrapf(ErrPoolNotFound, "goal %q", goal)
	}
	return pool, nil
}

func validatePools(pools map[string]Pool, requiredSlots []string) error {
	for _, goal := range sortedKeys(pools) {
		pool := pools[goal]
		if goal != NormalizeGoal(goal) {
			return errors.Wrapf(ErrInvalidCatalog, "goal %q must be lower case", goal)
		}
		for _, slot := range requiredSlots {
			if _, ok := pool.Slots[slot]; !ok {
				return errors.Wrapf(ErrInvalidCatalog, "goal %q has no %q slot", goal, slot)
			}
		}
		for _, slot := range sortedKeys(pool.Slots) {
			buckets := pool.Slots[slot]
			if len(buckets[DefaultBucket]) == 0 {
				return errors.Wrapf(ErrInvalidCatalog, "goal %q slot %q has no default items", goal, slot)
			}
			for key := range buckets {
				if !IsKnownBucket(key) {
					return errors.Wrapf(ErrInvalidCatalog, "goal %q slot %q has unknown bucket %q", goal, slot, key)
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
