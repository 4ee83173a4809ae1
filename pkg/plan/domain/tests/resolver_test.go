package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare/pkg/common/domain"
	"healthcare/pkg/plan/domain/model"
	"healthcare/pkg/plan/domain/service"
)

func breakfastPool(buckets model.Buckets) model.Pool {
	return model.Pool{Goal: "loss", Slots: map[string]model.Buckets{"breakfast": buckets}}
}

func TestResolveWithoutRestrictionsUsesDefault(t *testing.T) {
	pool := breakfastPool(model.Buckets{
		"default": {"Oats", "Toast"},
		"noEgg":   {"Oats"},
	})

	for _, restrictions := range [][]string{nil, {}, {"default"}, {"  "}, {"unknown-tag"}} {
		resolution, err := service.Resolve(pool, "breakfast", restrictions)

		require.NoError(t, err)
		assert.Equal(t, model.RuleDefault, resolution.Rule)
		assert.Equal(t, []string{"Oats", "Toast"}, resolution.Candidates)
		assert.Equal(t, "default", resolution.Key())
	}
}

func TestResolveSingleRestriction(t *testing.T) {
	pool := breakfastPool(model.Buckets{
		"default":    {"Omelette", "Oats"},
		"noEgg":      {"Oats"},
		"glutenFree": {},
	})

	t.Run("Tag maps to bucket", func(t *testing.T) {
		for _, tag := range []string{"egg", "Eggs", " no-egg ", "noEgg", "NO_EGG"} {
			resolution, err := service.Resolve(pool, "breakfast", []string{tag})

			require.NoError(t, err, tag)
			assert.Equal(t, model.RuleSingle, resolution.Rule, tag)
			assert.Equal(t, []string{"Oats"}, resolution.Candidates, tag)
			assert.Equal(t, "noEgg", resolution.Key(), tag)
		}
	})

	t.Run("Empty bucket falls back to default", func(t *testing.T) {
		resolution, err := service.Resolve(pool, "breakfast", []string{"gluten"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleDefault, resolution.Rule)
		assert.Equal(t, []string{"Omelette", "Oats"}, resolution.Candidates)
	})

	t.Run("Missing bucket falls back to default", func(t *testing.T) {
		resolution, err := service.Resolve(pool, "breakfast", []string{"vegan"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleDefault, resolution.Rule)
	})
}

func TestResolveMultipleRestrictions(t *testing.T) {
	t.Run("Intersection when it is large enough", func(t *testing.T) {
		pool := breakfastPool(model.Buckets{
			"default": {"X"},
			"noEgg":   {"A", "B", "C", "D"},
			"noMilk":  {"B", "C", "D", "E"},
		})

		resolution, err := service.Resolve(pool, "breakfast", []string{"egg", "milk"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleIntersection, resolution.Rule)
		assert.Equal(t, []string{"B", "C", "D"}, resolution.Candidates)
		assert.Equal(t, "noEgg+noMilk", resolution.Key())
	})

	t.Run("Union when the intersection is too small", func(t *testing.T) {
		pool := breakfastPool(model.Buckets{
			"default": {"X"},
			"noEgg":   {"A", "B"},
			"noMilk":  {"B", "C"},
		})

		resolution, err := service.Resolve(pool, "breakfast", []string{"egg", "milk"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleUnion, resolution.Rule)
		assert.Equal(t, []string{"A", "B", "C"}, resolution.Candidates)
	})

	t.Run("Union only counts buckets that exist", func(t *testing.T) {
		pool := breakfastPool(model.Buckets{
			"default": {"X"},
			"noEgg":   {"A", "B", "C"},
		})

		resolution, err := service.Resolve(pool, "breakfast", []string{"egg", "fish"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleUnion, resolution.Rule)
		assert.Equal(t, []string{"noEgg"}, resolution.Keys)
		assert.Equal(t, []string{"A", "B", "C"}, resolution.Candidates)
	})

	t.Run("Default when every combination is too small", func(t *testing.T) {
		pool := breakfastPool(model.Buckets{
			"default": {"X", "Y"},
			"noEgg":   {"A"},
			"noMilk":  {"A"},
		})

		resolution, err := service.Resolve(pool, "breakfast", []string{"egg", "milk"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleDefault, resolution.Rule)
		assert.Equal(t, []string{"X", "Y"}, resolution.Candidates)
	})

	t.Run("Default when no bucket is present", func(t *testing.T) {
		pool := breakfastPool(model.Buckets{"default": {"X"}})

		resolution, err := service.Resolve(pool, "breakfast", []string{"egg", "milk", "nuts"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleDefault, resolution.Rule)
	})

	t.Run("Duplicate tags collapse to one bucket", func(t *testing.T) {
		pool := breakfastPool(model.Buckets{
			"default": {"X"},
			"noEgg":   {"A"},
		})

		resolution, err := service.Resolve(pool, "breakfast", []string{"egg", "Eggs", "no egg"})

		require.NoError(t, err)
		assert.Equal(t, model.RuleSingle, resolution.Rule)
		assert.Equal(t, []string{"A"}, resolution.Candidates)
	})
}

func TestResolveDoesNotAliasPool(t *testing.T) {
	pool := breakfastPool(model.Buckets{"default": {"Oats", "Toast"}})

	resolution, err := service.Resolve(pool, "breakfast", nil)
	require.NoError(t, err)
	resolution.Candidates[0] = "changed"

	assert.Equal(t, "Oats", pool.Slots["breakfast"]["default"][0])
}

func TestResolveErrors(t *testing.T) {
	t.Run("Missing slot", func(t *testing.T) {
		_, err := service.Resolve(breakfastPool(model.Buckets{"default": {"Oats"}}), "dinner", nil)

		assert.ErrorIs(t, err, model.ErrSlotNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Empty default", func(t *testing.T) {
		_, err := service.Resolve(breakfastPool(model.Buckets{"noEgg": {"Oats"}}), "breakfast", []string{"milk"})

		assert.ErrorIs(t, err, model.ErrNoCandidates)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCanonicalBucket(t *testing.T) {
	cases := map[string]string{
		"egg":         "noEgg",
		"No Milk":     "noMilk",
		"dairy":       "noMilk",
		"peanuts":     "noNuts",
		"gluten-free": "glutenFree",
		"gluten":      "glutenFree",
		"Vegetarian":  "vegetarian",
		"lower_back":  "noBack",
		"low impact":  "lowImpact",
		"knees":       "noKnee",
		"noKnee":      "noKnee",
		"push":        "noPush",
		"no pushes":   "noPush",
		"pull":        "noPull",
		"No-Pulls":    "noPull",
		"weight":      "noWeights",
		"weights":     "noWeights",
		"noWeights":   "noWeights",
		"":            "default",
		"pineapple":   "default",
	}
	for tag, bucket := range cases {
		assert.Equal(t, bucket, model.CanonicalBucket(tag), tag)
	}
}
