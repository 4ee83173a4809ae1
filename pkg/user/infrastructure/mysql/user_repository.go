package mysql

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	planmodel "healthcare/pkg/plan/domain/model"
	"healthcare/pkg/user/domain/model"
)

// userRow keeps plans, restrictions and reviews as JSON documents.
type userRow struct {
	ID                   uuid.UUID      `db:"id"`
	Email                string         `db:"email"`
	Goal                 string         `db:"goal"`
	Subscribed           bool           `db:"subscribed"`
	Weight               float64        `db:"weight"`
	Details              string         `db:"details"`
	DietRestrictions     string         `db:"diet_restrictions"`
	DietPlan             sql.NullString `db:"diet_plan"`
	HasReviewedDiet      bool           `db:"has_reviewed_diet"`
	DietReviews          sql.NullString `db:"diet_reviews"`
	ExerciseRestrictions string         `db:"exercise_restrictions"`
	ExercisePlan         sql.NullString `db:"exercise_plan"`
	HasReviewedExercise  bool           `db:"has_reviewed_exercise"`
	ExerciseReviews      sql.NullString `db:"exercise_reviews"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

const userTable = "`user`"

const userColumns = `id, email, goal, subscribed, weight, details,
	diet_restrictions, diet_plan, has_reviewed_diet, diet_reviews,
	exercise_restrictions, exercise_plan, has_reviewed_exercise, exercise_reviews,
	created_at, updated_at`

func NewUserRepository(db *sqlx.DB) model.UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *sqlx.DB
}

func (r *userRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *userRepository) Create(user *model.User) error {
	row, err := toUserRow(user)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExec(
		`INSERT INTO `+userTable+` (`+userColumns+`)
		VALUES (:id, :email, :goal, :subscribed, :weight, :details,
			:diet_restrictions, :diet_plan, :has_reviewed_diet, :diet_reviews,
			:exercise_restrictions, :exercise_plan, :has_reviewed_exercise, :exercise_reviews,
			:created_at, :updated_at)`,
		row,
	)
	return errors.Wrapf(err, "insert user %s", user.ID)
}

func (r *userRepository) Update(user *model.User) error {
	row, err := toUserRow(user)
	if err != nil {
		return err
	}
	res, err := r.db.NamedExec(
		`UPDATE `+userTable+` SET
			goal = :goal,
			subscribed = :subscribed,
			weight = :weight,
			details = :details,
			diet_restrictions = :diet_restrictions,
			diet_plan = :diet_plan,
			has_reviewed_diet = :has_reviewed_diet,
			diet_reviews = :diet_reviews,
			exercise_restrictions = :exercise_restrictions,
			exercise_plan = :exercise_plan,
			has_reviewed_exercise = :has_reviewed_exercise,
			exercise_reviews = :exercise_reviews,
			updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return errors.Wrapf(err, "update user %s", user.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Find(id uuid.UUID) (*model.User, error) {
	return r.findOne(`SELECT `+userColumns+` FROM `+userTable+` WHERE id = ?`, id)
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.findOne(`SELECT `+userColumns+` FROM `+userTable+` WHERE email = ?`, email)
}

func (r *userRepository) findOne(query string, arg interface{}) (*model.User, error) {
	var row userRow
	err := r.db.Get(&row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find user by %v", arg)
	}
	return fromUserRow(row)
}

func toUserRow(u *model.User) (userRow, error) {
	row := userRow{
		ID:                  u.ID,
		Email:               u.Email,
		Goal:                u.Goal,
		Subscribed:          u.Subscribed,
		Weight:              u.Weight,
		Details:             u.Details,
		HasReviewedDiet:     u.HasReviewedDiet,
		HasReviewedExercise: u.HasReviewedExercise,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}

	var err error
	if row.DietRestrictions, err = marshalList(u.DietRestrictions); err != nil {
		return userRow{}, err
	}
	if row.ExerciseRestrictions, err = marshalList(u.ExerciseRestrictions); err != nil {
		return userRow{}, err
	}
	if u.DietPlan != nil {
		if row.DietPlan, err = marshalDocument(u.DietPlan); err != nil {
			return userRow{}, errors.Wrap(err, "encode diet plan")
		}
	}
	if u.ExercisePlan != nil {
		if row.ExercisePlan, err = marshalDocument(u.ExercisePlan); err != nil {
			return userRow{}, errors.Wrap(err, "encode exercise plan")
		}
	}
	if len(u.DietReviews) > 0 {
		if row.DietReviews, err = marshalDocument(u.DietReviews); err != nil {
			return userRow{}, errors.Wrap(err, "encode diet reviews")
		}
	}
	if len(u.ExerciseReviews) > 0 {
		if row.ExerciseReviews, err = marshalDocument(u.ExerciseReviews); err != nil {
			return userRow{}, errors.Wrap(err, "encode exercise reviews")
		}
	}
	return row, nil
}

func fromUserRow(row userRow) (*model.User, error) {
	user := &model.User{
		ID:                  row.ID,
		Email:               row.Email,
		Goal:                row.Goal,
		Subscribed:          row.Subscribed,
		Weight:              row.Weight,
		Details:             row.Details,
		HasReviewedDiet:     row.HasReviewedDiet,
		HasReviewedExercise: row.HasReviewedExercise,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}

	if err := unmarshalOptional(row.DietRestrictions, &user.DietRestrictions); err != nil {
		return nil, errors.Wrap(err, "decode diet restrictions")
	}
	if err := unmarshalOptional(row.ExerciseRestrictions, &user.ExerciseRestrictions); err != nil {
		return nil, errors.Wrap(err, "decode exercise restrictions")
	}
	if err := unmarshalOptional(row.DietReviews.String, &user.DietReviews); err != nil {
		return nil, errors.Wrap(err, "decode diet reviews")
	}
	if err := unmarshalOptional(row.ExerciseReviews.String, &user.ExerciseReviews); err != nil {
		return nil, errors.Wrap(err, "decode exercise reviews")
	}
	if row.DietPlan.Valid {
		user.DietPlan = &planmodel.DietPlan{}
		if err := json.Unmarshal([]byte(row.DietPlan.String), user.DietPlan); err != nil {
			return nil, errors.Wrap(err, "decode diet plan")
		}
	}
	if row.ExercisePlan.Valid {
		user.ExercisePlan = &planmodel.ExercisePlan{}
		if err := json.Unmarshal([]byte(row.ExercisePlan.String), user.ExercisePlan); err != nil {
			return nil, errors.Wrap(err, "decode exercise plan")
		}
	}
	return user, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", errors.Wrap(err, "encode restrictions")
	}
	return string(data), nil
}

func marshalDocument(v interface{}) (sql.NullString, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalOptional(data string, target interface{}) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), target)
}
