package transport

import (
	"net/http"

	"github.com/google/uuid"

	planmodel "healthcare/pkg/plan/domain/model"
	planservice "healthcare/pkg/plan/domain/service"
)

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.RegisterUser(req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.GetUser(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *Handler) setSubscription(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req subscriptionRequest
	if err = readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err = h.users.SetSubscription(userID, req.Subscribed); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) generateDietPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req generatePlanRequest
	if err = readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := h.plans.GenerateDietPlan(userID, req.Goal, req.tags())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *Handler) getDietPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.GetUser(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user.DietPlan == nil {
		writeError(w, r, planservice.ErrPlanNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user.DietPlan)
}

func (h *Handler) clearDietPlan(w http.ResponseWriter, r *http.Request) {
	h.userCommand(w, r, h.plans.ClearDietPlan)
}

func (h *Handler) resetDietProgress(w http.ResponseWriter, r *http.Request) {
	h.userCommand(w, r, h.plans.ResetDietProgress)
}

func (h *Handler) markDietDayFinished(w http.ResponseWriter, r *http.Request) {
	h.dayCommand(w, r, h.plans.MarkDietDayFinished)
}

func (h *Handler) shuffleMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	week, day, err := weekDay(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slot := muxVar(r, "slot")
	meal, err := h.plans.ShuffleMeal(userID, week, day, slot)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shuffleMealResponse{Slot: slot, Meal: meal})
}

func (h *Handler) generateExercisePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req generatePlanRequest
	if err = readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := h.plans.GenerateExercisePlan(userID, req.Goal, req.tags())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *Handler) getExercisePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.GetUser(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if user.ExercisePlan == nil {
		writeError(w, r, planservice.ErrPlanNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user.ExercisePlan)
}

func (h *Handler) resetExerciseProgress(w http.ResponseWriter, r *http.Request) {
	h.userCommand(w, r, h.plans.ResetExerciseProgress)
}

func (h *Handler) markExerciseDayFinished(w http.ResponseWriter, r *http.Request) {
	h.dayCommand(w, r, h.plans.MarkExerciseDayFinished)
}

func (h *Handler) clearExercisePlan(w http.ResponseWriter, r *http.Request) {
	h.userCommand(w, r, h.plans.ClearExercisePlan)
}

func (h *Handler) submitDietReview(w http.ResponseWriter, r *http.Request) {
	h.reviewCommand(w, r, h.plans.SubmitDietReview)
}

func (h *Handler) submitExerciseReview(w http.ResponseWriter, r *http.Request) {
	h.reviewCommand(w, r, h.plans.SubmitExerciseReview)
}

func (h *Handler) reviewCommand(w http.ResponseWriter, r *http.Request, command func(uuid.UUID, planmodel.ReviewSubmission) error) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err = readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err = command(userID, req.submission()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) customizeExerciseDay(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	week, day, err := weekDay(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req customizeDayRequest
	if err = readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err = h.plans.CustomizeExerciseDay(userID, week, day, req.Workouts); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) suggestWorkouts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	exercises, err := h.plans.SuggestWorkouts(query.Get("goal"), query.Get("restriction"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Exercises: exercises})
}
