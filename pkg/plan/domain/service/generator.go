package service

import (
	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
	"healthcare/pkg/plan/domain/model"
)

var ErrInvalidShape = errors.WithMessage(domain.ErrInvalidInput, "plan shape must be positive")

type Generator struct {
	rnd RandomSource
}

func NewGenerator(rnd RandomSource) *Generator {
	if rnd == nil {
		rnd = DefaultRandomSource()
	}
	return &Generator{rnd: rnd}
}

// GenerateDiet fills every slot of every day with one uniformly drawn item of
// that slot's resolution. Draws are independent, so items repeat across days.
func (g *Generator) GenerateDiet(resolutions map[string]model.Resolution, shape model.Shape) (*model.DietPlan, error) {
	if shape.Weeks <= 0 || shape.DaysPerWeek <= 0 || len(shape.Slots) == 0 {
		return nil, errors.Wrapf(ErrInvalidShape, "%d weeks x %d days x %d slots", shape.Weeks, shape.DaysPerWeek, len(shape.Slots))
	}
	for _, slot := range shape.Slots {
		if n := len(resolutions[slot].Candidates); n < 1 {
			return nil, errors.Wrapf(model.ErrNotEnoughChoices, "slot %q has %d items, need 1", slot, n)
		}
	}

	plan := &model.DietPlan{Weeks: make([]model.DietWeek, shape.Weeks)}
	for w := range plan.Weeks {
		days := make([]model.DietDay, shape.DaysPerWeek)
		for d := range days {
			meals := make(map[string]string, len(shape.Slots))
			for _, slot := range shape.Slots {
				meals[slot] = g.Pick(resolutions[slot].Candidates)
			}
			days[d] = model.DietDay{Meals: meals}
		}
		plan.Weeks[w] = model.DietWeek{Days: days}
	}
	return plan, nil
}

// GenerateExercise draws WorkoutsPerDay distinct workouts for each day.
func (g *Generator) GenerateExercise(goal string, resolution model.Resolution, shape model.ExerciseShape) (*model.ExercisePlan, error) {
	if shape.Weeks <= 0 || shape.DaysPerWeek <= 0 || shape.WorkoutsPerDay <= 0 {
		return nil, errors.Wrapf(ErrInvalidShape, "%d weeks x %d days x %d workouts", shape.Weeks, shape.DaysPerWeek, shape.WorkoutsPerDay)
	}
	if n := len(resolution.Candidates); n < shape.WorkoutsPerDay {
		return nil, errors.Wrapf(model.ErrNotEnoughChoices, "bucket %q has %d workouts, need %d", resolution.Key(), n, shape.WorkoutsPerDay)
	}

	plan := &model.ExercisePlan{Weeks: make([]model.ExerciseWeek, shape.Weeks)}
	for w := range plan.Weeks {
		days := make([]model.ExerciseDay, shape.DaysPerWeek)
		for d := range days {
			days[d] = model.ExerciseDay{
				Day:         d + 1,
				Type:        goal,
				Workouts:    g.Sample(resolution.Candidates, shape.WorkoutsPerDay),
				Restriction: resolution.Key(),
			}
		}
		plan.Weeks[w] = model.ExerciseWeek{Week: w + 1, Days: days}
	}
	return plan, nil
}

// Pick returns one uniformly drawn item. items must not be empty.
func (g *Generator) Pick(items []string) string {
	return items[g.rnd.IntN(len(items))]
}

// Sample returns k distinct positions of items using a partial Fisher-Yates shuffle.
// items is left untouched.
func (g *Generator) Sample(items []string, k int) []string {
	shuffled := append([]string(nil), items...)
	for i := 0; i < k; i++ {
		j := i + g.rnd.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k:k]
}
