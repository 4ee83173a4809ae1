package model

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
)

var ErrDayOutOfRange = errors.WithMessage(domain.ErrInvalidInput, "week/day index out of range")

// Shape describes the grid a diet plan is generated into.
type Shape struct {
	Weeks       int
	DaysPerWeek int
	Slots       []string
}

// ExerciseShape describes the grid an exercise plan is generated into.
type ExerciseShape struct {
	Weeks          int
	DaysPerWeek    int
	WorkoutsPerDay int
}

var (
	DietShape = Shape{
		Weeks:       4,
		DaysPerWeek: 7,
		Slots:       []string{"breakfast", "lunch", "dinner", "snack"},
	}
	DefaultExerciseShape = ExerciseShape{
		Weeks:          4,
		DaysPerWeek:    4,
		WorkoutsPerDay: 3,
	}
)

type DietPlan struct {
	Weeks []DietWeek `json:"weeks"`
}

type DietWeek struct {
	Days []DietDay `json:"days"`
}

// DietDay serializes flat: one key per meal slot plus "finished".
type DietDay struct {
	Meals    map[string]string
	Finished bool
}

type ExercisePlan struct {
	Weeks []ExerciseWeek `json:"weeks"`
}

type ExerciseWeek struct {
	Week int           `json:"week"`
	Days []ExerciseDay `json:"days"`
}

type ExerciseDay struct {
	Day         int      `json:"day"`
	Type        string   `json:"type"`
	Workouts    []string `json:"workout"`
	Restriction string   `json:"restriction"`
	Finished    bool     `json:"finished"`
}

func (p *DietPlan) Day(week, day int) (*DietDay, error) {
	if p == nil || week < 0 || week >= len(p.Weeks) || day < 0 || day >= len(p.Weeks[week].Days) {
		return nil, errors.Wrapf(ErrDayOutOfRange, "week %d day %d", week, day)
	}
	return &p.Weeks[week].Days[day], nil
}

func (p *DietPlan) ResetProgress() {
	for w := range p.Weeks {
		for d := range p.Weeks[w].Days {
			p.Weeks[w].Days[d].Finished = false
		}
	}
}

func (p *ExercisePlan) Day(week, day int) (*ExerciseDay, error) {
	if p == nil || week < 0 || week >= len(p.Weeks) || day < 0 || day >= len(p.Weeks[week].Days) {
		return nil, errors.Wrapf(ErrDayOutOfRange, "week %d day %d", week, day)
	}
	return &p.Weeks[week].Days[day], nil
}

func (p *ExercisePlan) ResetProgress() {
	for w := range p.Weeks {
		for d := range p.Weeks[w].Days {
			p.Weeks[w].Days[d].Finished = false
		}
	}
}

const finishedKey = "finished"

func (d DietDay) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Meals)+1)
	for slot, meal := range d.Meals {
		out[slot] = meal
	}
	out[finishedKey] = d.Finished
	return json.Marshal(out)
}

func (d *DietDay) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Meals = make(map[string]string, len(raw))
	d.Finished = false
	for key, value := range raw {
		if key == finishedKey {
			if err := json.Unmarshal(value, &d.Finished); err != nil {
				return errors.Wrap(err, "decode finished flag")
			}
			continue
		}
		if strings.TrimSpace(string(value)) == "null" {
			continue
		}
		var meal string
		if err := json.Unmarshal(value, &meal); err != nil {
			return errors.Wrapf(err, "decode meal %q", key)
		}
		d.Meals[key] = meal
	}
	return nil
}
