package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
	"healthcare/pkg/plan/domain/model"
	usermodel "healthcare/pkg/user/domain/model"
)

var (
	ErrGoalRequired    = errors.WithMessage(domain.ErrInvalidInput, "goal is required")
	ErrPlanNotFound    = errors.WithMessage(domain.ErrNotFound, "plan")
	ErrNotSubscribed   = errors.WithMessage(domain.ErrNotFound, "subscribed user with a goal")
	ErrUnknownMealSlot = errors.WithMessage(domain.ErrInvalidInput, "unknown meal slot")
	ErrNoWorkouts      = errors.WithMessage(domain.ErrInvalidInput, "at least one workout is required")
	ErrInvalidWeight   = errors.WithMessage(domain.ErrInvalidInput, "weight cannot be negative")
)

// ErrSubscriptionRequired guards edits that only subscribers may make.
var ErrSubscriptionRequired = errors.WithMessage(domain.ErrForbidden, "only subscribed users can customize workouts")

// minExerciseReviewLength is the shortest exercise review text worth keeping.
const minExerciseReviewLength = 4

type PlanService interface {
	GenerateDietPlan(userID uuid.UUID, goal string, restrictions []string) (*model.DietPlan, error)
	GenerateExercisePlan(userID uuid.UUID, goal string, restrictions []string) (*model.ExercisePlan, error)
	MarkDietDayFinished(userID uuid.UUID, week, day int) error
	MarkExerciseDayFinished(userID uuid.UUID, week, day int) error
	ResetDietProgress(userID uuid.UUID) error
	ResetExerciseProgress(userID uuid.UUID) error
	ClearDietPlan(userID uuid.UUID) error
	ClearExercisePlan(userID uuid.UUID) error
	ShuffleMeal(userID uuid.UUID, week, day int, slot string) (string, error)
	CustomizeExerciseDay(userID uuid.UUID, week, day int, workouts []string) error
	SuggestWorkouts(goal, restriction string) ([]string, error)
	SubmitDietReview(userID uuid.UUID, submission model.ReviewSubmission) error
	SubmitExerciseReview(userID uuid.UUID, submission model.ReviewSubmission) error
}

func NewPlanService(
	catalog model.Catalog,
	users usermodel.UserRepository,
	generator *Generator,
	dispatcher domain.EventDispatcher,
) PlanService {
	return &planService{
		catalog:    catalog,
		users:      users,
		generator:  generator,
		dispatcher: dispatcher,
	}
}

type planService struct {
	catalog    model.Catalog
	users      usermodel.UserRepository
	generator  *Generator
	dispatcher domain.EventDispatcher
}

func (s *planService) GenerateDietPlan(userID uuid.UUID, goal string, restrictions []string) (*model.DietPlan, error) {
	goal = model.NormalizeGoal(goal)
	if goal == "" {
		return nil, ErrGoalRequired
	}
	pool, err := s.catalog.DietPool(goal)
	if err != nil {
		return nil, err
	}

	resolutions := make(map[string]model.Resolution, len(model.DietShape.Slots))
	for _, slot := range model.DietShape.Slots {
		resolution, err := Resolve(pool, slot, restrictions)
		if err != nil {
			return nil, err
		}
		resolutions[slot] = resolution
	}

	plan, err := s.generator.GenerateDiet(resolutions, model.DietShape)
	if err != nil {
		return nil, err
	}

	stored := storedRestrictions(restrictions)
	err = s.executeOnUser(userID, func(u *usermodel.User) error {
		u.Goal = goal
		u.DietRestrictions = stored
		u.DietPlan = plan
		u.HasReviewedDiet = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(model.DietPlanGenerated{UserID: userID, Goal: goal, Restrictions: stored})
	return plan, nil
}

func (s *planService) GenerateExercisePlan(userID uuid.UUID, goal string, restrictions []string) (*model.ExercisePlan, error) {
	goal = model.NormalizeGoal(goal)
	if goal == "" {
		return nil, ErrGoalRequired
	}
	pool, err := s.catalog.ExercisePool(goal)
	if err != nil {
		return nil, err
	}

	resolution, err := Resolve(pool, model.WorkoutSlot, restrictions)
	if err != nil {
		return nil, err
	}

	plan, err := s.generator.GenerateExercise(goal, resolution, model.DefaultExerciseShape)
	if err != nil {
		return nil, err
	}

	stored := storedRestrictions(restrictions)
	err = s.executeOnUser(userID, func(u *usermodel.User) error {
		u.Goal = goal
		u.ExerciseRestrictions = stored
		u.ExercisePlan = plan
		u.HasReviewedExercise = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(model.ExercisePlanGenerated{UserID: userID, Goal: goal, Restriction: resolution.Key()})
	return plan, nil
}

func (s *planService) MarkDietDayFinished(userID uuid.UUID, week, day int) error {
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if u.DietPlan == nil {
			return ErrPlanNotFound
		}
		d, err := u.DietPlan.Day(week, day)
		if err != nil {
			return err
		}
		d.Finished = true
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.PlanDayFinished{UserID: userID, Kind: model.DietPlanKind, Week: week, Day: day})
	return nil
}

func (s *planService) MarkExerciseDayFinished(userID uuid.UUID, week, day int) error {
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if u.ExercisePlan == nil {
			return ErrPlanNotFound
		}
		d, err := u.ExercisePlan.Day(week, day)
		if err != nil {
			return err
		}
		d.Finished = true
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.PlanDayFinished{UserID: userID, Kind: model.ExercisePlanKind, Week: week, Day: day})
	return nil
}

func (s *planService) ResetDietProgress(userID uuid.UUID) error {
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if u.DietPlan == nil {
			return ErrPlanNotFound
		}
		u.DietPlan.ResetProgress()
		u.HasReviewedDiet = false
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.PlanProgressReset{UserID: userID, Kind: model.DietPlanKind})
	return nil
}

func (s *planService) ResetExerciseProgress(userID uuid.UUID) error {
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if u.ExercisePlan == nil {
			return ErrPlanNotFound
		}
		u.ExercisePlan.ResetProgress()
		u.HasReviewedExercise = false
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.PlanProgressReset{UserID: userID, Kind: model.ExercisePlanKind})
	return nil
}

func (s *planService) ClearDietPlan(userID uuid.UUID) error {
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		u.DietPlan = nil
		u.HasReviewedDiet = false
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.DietPlanCleared{UserID: userID})
	return nil
}

// ClearExercisePlan drops the plan once it has been reviewed so the user can
// start over.
func (s *planService) ClearExercisePlan(userID uuid.UUID) error {
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		u.ExercisePlan = nil
		u.HasReviewedExercise = false
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.ExercisePlanCleared{UserID: userID})
	return nil
}

// ShuffleMeal replaces one meal with a random item drawn from the user's
// resolved bucket merged with the default bucket.
func (s *planService) ShuffleMeal(userID uuid.UUID, week, day int, slot string) (string, error) {
	slot = strings.ToLower(strings.TrimSpace(slot))
	var meal string
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if !u.Subscribed || u.Goal == "" {
			return ErrNotSubscribed
		}
		if u.DietPlan == nil {
			return ErrPlanNotFound
		}
		d, err := u.DietPlan.Day(week, day)
		if err != nil {
			return err
		}
		if _, ok := d.Meals[slot]; !ok {
			return errors.Wrapf(ErrUnknownMealSlot, "%q", slot)
		}

		pool, err := s.catalog.DietPool(u.Goal)
		if err != nil {
			return err
		}
		resolution, err := Resolve(pool, slot, u.DietRestrictions)
		if err != nil {
			return err
		}
		candidates := union([][]string{resolution.Candidates, pool.Slots[slot][model.DefaultBucket]})

		meal = s.generator.Pick(candidates)
		d.Meals[slot] = meal
		return nil
	})
	if err != nil {
		return "", err
	}

	s.dispatch(model.MealShuffled{UserID: userID, Week: week, Day: day, Slot: slot, Meal: meal})
	return meal, nil
}

// CustomizeExerciseDay replaces the workouts of one day with the user's own
// list. Blank entries are dropped.
func (s *planService) CustomizeExerciseDay(userID uuid.UUID, week, day int, workouts []string) error {
	var cleaned []string
	for _, workout := range workouts {
		if workout = strings.TrimSpace(workout); workout != "" {
			cleaned = append(cleaned, workout)
		}
	}
	if len(cleaned) == 0 {
		return ErrNoWorkouts
	}

	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if !u.Subscribed {
			return ErrSubscriptionRequired
		}
		if u.ExercisePlan == nil {
			return ErrPlanNotFound
		}
		d, err := u.ExercisePlan.Day(week, day)
		if err != nil {
			return err
		}
		d.Workouts = cleaned
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.ExerciseDayCustomized{UserID: userID, Week: week, Day: day, Workouts: cleaned})
	return nil
}

// SuggestWorkouts returns the workouts a restriction resolves to for goal,
// shuffled. Unknown restrictions get the default bucket.
func (s *planService) SuggestWorkouts(goal, restriction string) ([]string, error) {
	if model.NormalizeGoal(goal) == "" {
		return nil, ErrGoalRequired
	}
	pool, err := s.catalog.ExercisePool(goal)
	if err != nil {
		return nil, err
	}
	resolution, err := Resolve(pool, model.WorkoutSlot, []string{restriction})
	if err != nil {
		return nil, err
	}
	return s.generator.Sample(resolution.Candidates, len(resolution.Candidates)), nil
}

// SubmitDietReview stores a non-blank review and marks the diet plan as
// reviewed. Weight and details are updated independently of the text.
func (s *planService) SubmitDietReview(userID uuid.UUID, submission model.ReviewSubmission) error {
	if submission.Weight < 0 {
		return ErrInvalidWeight
	}

	text := strings.TrimSpace(submission.Review)
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if text != "" {
			u.DietReviews = append(u.DietReviews, model.Review{Text: text, CreatedAt: time.Now().UTC()})
			u.HasReviewedDiet = true
		}
		applyBodyUpdates(u, submission)
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.PlanReviewed{UserID: userID, Kind: model.DietPlanKind, Stored: text != ""})
	return nil
}

// SubmitExerciseReview marks the exercise plan as reviewed. The text is only
// kept when it is long enough to say something.
func (s *planService) SubmitExerciseReview(userID uuid.UUID, submission model.ReviewSubmission) error {
	if submission.Weight < 0 {
		return ErrInvalidWeight
	}

	text := strings.TrimSpace(submission.Review)
	stored := len([]rune(text)) >= minExerciseReviewLength
	err := s.executeOnUser(userID, func(u *usermodel.User) error {
		if stored {
			u.ExerciseReviews = append(u.ExerciseReviews, model.Review{Text: text, CreatedAt: time.Now().UTC()})
		}
		u.HasReviewedExercise = true
		applyBodyUpdates(u, submission)
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(model.PlanReviewed{UserID: userID, Kind: model.ExercisePlanKind, Stored: stored})
	return nil
}

func applyBodyUpdates(u *usermodel.User, submission model.ReviewSubmission) {
	if submission.Weight > 0 {
		u.Weight = submission.Weight
	}
	if details := strings.TrimSpace(submission.Details); details != "" {
		u.Details = details
	}
}

func (s *planService) executeOnUser(userID uuid.UUID, action func(u *usermodel.User) error) error {
	user, err := s.users.Find(userID)
	if err != nil {
		return err
	}

	if err := action(user); err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(user)
}

func (s *planService) dispatch(event domain.Event) {
	_ = s.dispatcher.Dispatch(event)
}

// storedRestrictions keeps the trimmed, non-default tags the user asked for.
func storedRestrictions(restrictions []string) []string {
	var stored []string
	for _, r := range restrictions {
		r = strings.TrimSpace(r)
		if r == "" || model.CanonicalBucket(r) == model.DefaultBucket {
			continue
		}
		stored = append(stored, r)
	}
	return stored
}
