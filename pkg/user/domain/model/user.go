package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
	planmodel "healthcare/pkg/plan/domain/model"
)

var (
	ErrUserNotFound = errors.WithMessage(domain.ErrNotFound, "user")
	ErrEmailTaken   = errors.WithMessage(domain.ErrInvalidInput, "email is already registered")
	ErrInvalidEmail = errors.WithMessage(domain.ErrInvalidInput, "email address is malformed")
)

// User is the owner of generated plans. Plans are replaced wholesale on
// regeneration and mutated in place when days are marked finished.
type User struct {
	ID                   uuid.UUID
	Email                string
	Goal                 string
	Subscribed           bool
	Weight               float64
	Details              string
	DietRestrictions     []string
	DietPlan             *planmodel.DietPlan
	HasReviewedDiet      bool
	DietReviews          []planmodel.Review
	ExerciseRestrictions []string
	ExercisePlan         *planmodel.ExercisePlan
	HasReviewedExercise  bool
	ExerciseReviews      []planmodel.Review
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type UserRepository interface {
	NextID() (uuid.UUID, error)
	Create(user *User) error
	Update(user *User) error
	Find(id uuid.UUID) (*User, error)
	FindByEmail(email string) (*User, error)
}
