package model

import "github.com/google/uuid"

type DietPlanGenerated struct {
	UserID       uuid.UUID
	Goal         string
	Restrictions []string
}

func (e DietPlanGenerated) Type() string { return "DietPlanGenerated" }

type ExercisePlanGenerated struct {
	UserID      uuid.UUID
	Goal        string
	Restriction string
}

func (e ExercisePlanGenerated) Type() string { return "ExercisePlanGenerated" }

type PlanKind string

const (
	DietPlanKind     PlanKind = "diet"
	ExercisePlanKind PlanKind = "exercise"
)

type PlanDayFinished struct {
	UserID uuid.UUID
	Kind   PlanKind
	Week   int
	Day    int
}

func (e PlanDayFinished) Type() string { return "PlanDayFinished" }

type PlanProgressReset struct {
	UserID uuid.UUID
	Kind   PlanKind
}

func (e PlanProgressReset) Type() string { return "PlanProgressReset" }

type DietPlanCleared struct {
	UserID uuid.UUID
}

func (e DietPlanCleared) Type() string { return "DietPlanCleared" }

type MealShuffled struct {
	UserID uuid.UUID
	Week   int
	Day    int
	Slot   string
	Meal   string
}

func (e MealShuffled) Type() string { return "MealShuffled" }

type ExercisePlanCleared struct {
	UserID uuid.UUID
}

func (e ExercisePlanCleared) Type() string { return "ExercisePlanCleared" }

type ExerciseDayCustomized struct {
	UserID   uuid.UUID
	Week     int
	Day      int
	Workouts []string
}

func (e ExerciseDayCustomized) Type() string { return "ExerciseDayCustomized" }

type PlanReviewed struct {
	UserID uuid.UUID
	Kind   PlanKind
	// Stored is false when the review text was too short to keep.
	Stored bool
}

func (e PlanReviewed) Type() string { return "PlanReviewed" }
