package pools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare/pkg/plan/domain/model"
	"healthcare/pkg/plan/domain/service"
	"healthcare/pkg/plan/infrastructure/pools"
)

const sample = `
diet:
  Weight Loss:
    breakfast:
      default: [Oats, Toast]
      noEgg: [Oats]
    lunch:
      default: [Salad]
    dinner:
      default: [Soup]
    snack:
      default: [Apple]
exercise:
  weight loss:
    default: [Plank, Squats, Lunges]
    noKnee: [Plank]
`

func TestParseCatalog(t *testing.T) {
	catalog, err := pools.ParseCatalog([]byte(sample))

	require.NoError(t, err)
	diet, err := catalog.DietPool("weight loss")
	require.NoError(t, err)
	assert.Equal(t, "weight loss", diet.Goal)
	assert.Equal(t, []string{"Oats"}, diet.Slots["breakfast"]["noEgg"])

	exercise, err := catalog.ExercisePool("Weight Loss")
	require.NoError(t, err)
	assert.Equal(t, []string{"Plank", "Squats", "Lunges"}, exercise.Slots[model.WorkoutSlot]["default"])
}

func TestParseCatalogRejectsInvalidPools(t *testing.T) {
	cases := map[string]string{
		"malformed yaml":  "diet: [",
		"missing default": "exercise:\n  loss:\n    noLegs: [Plank]\n",
		"missing slot":    "diet:\n  loss:\n    lunch:\n      default: [Salad]\n",
		"unknown bucket":  "exercise:\n  loss:\n    default: [Plank]\n    noEggs: [Plank]\n",
		"duplicate goal":  "exercise:\n  loss:\n    default: [Plank]\n  Loss:\n    default: [Squats]\n",
	}
	for name, data := range cases {
		_, err := pools.ParseCatalog([]byte(data))
		assert.ErrorIs(t, err, model.ErrInvalidCatalog, name)
	}
}

func TestLoadBundledCatalog(t *testing.T) {
	catalog, err := pools.LoadCatalog("../../../../configs/pools.yaml")

	require.NoError(t, err)
	for _, goal := range []string{"gain", "loss", "balance"} {
		diet, err := catalog.DietPool(goal)
		require.NoError(t, err, goal)
		for _, slot := range model.DietShape.Slots {
			assert.NotEmpty(t, diet.Slots[slot][model.DefaultBucket], "%s %s", goal, slot)
			assert.GreaterOrEqual(t, len(diet.Slots[slot]["glutenFree"]), service.MinVariety, "%s %s", goal, slot)
		}

		exercise, err := catalog.ExercisePool(goal)
		require.NoError(t, err, goal)
		for _, bucket := range []string{"noLegs", "noBack", "noPush", "noPull", "noWeights"} {
			assert.GreaterOrEqual(t, len(exercise.Slots[model.WorkoutSlot][bucket]), service.MinVariety, "%s %s", goal, bucket)
		}
	}
}

func TestBundledCatalogResolvesRestrictionTags(t *testing.T) {
	catalog, err := pools.LoadCatalog("../../../../configs/pools.yaml")
	require.NoError(t, err)

	exercise, err := catalog.ExercisePool("gain")
	require.NoError(t, err)
	resolution, err := service.Resolve(exercise, model.WorkoutSlot, []string{"no pushes", "weights"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"noPush", "noWeights"}, resolution.Keys)
	assert.Equal(t, model.RuleUnion, resolution.Rule)

	diet, err := catalog.DietPool("balance")
	require.NoError(t, err)
	resolution, err = service.Resolve(diet, "lunch", []string{"gluten-free"})
	require.NoError(t, err)
	assert.Equal(t, diet.Slots["lunch"]["glutenFree"], resolution.Candidates)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := pools.LoadCatalog("does-not-exist.yaml")
	assert.Error(t, err)
}
