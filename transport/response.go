package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"healthcare/pkg/common/domain"
)

var errMalformedRequest = errors.WithMessage(domain.ErrInvalidInput, "malformed request")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the domain error classes onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientCandidates):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := log.WithFields(log.Fields{
		"method": r.Method,
		"url":    r.URL,
		"status": status,
	}).WithError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		entry.Error("request failed")
		message = http.StatusText(status)
	} else {
		entry.Warn("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithField("err", err).Error("write response body")
	}
}

func readJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return errors.Wrap(errMalformedRequest, err.Error())
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, errors.Wrapf(errMalformedRequest, "%s: %s", name, err)
	}
	return id, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, errors.Wrapf(errMalformedRequest, "%s must be an integer", name)
	}
	return n, nil
}

// weekDay reads the zero-based week and day path indices.
func weekDay(r *http.Request) (week, day int, err error) {
	if week, err = pathInt(r, "week"); err != nil {
		return 0, 0, err
	}
	if day, err = pathInt(r, "day"); err != nil {
		return 0, 0, err
	}
	return week, day, nil
}

func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// userCommand runs a body-less command on the user named in the path.
func (h *Handler) userCommand(w http.ResponseWriter, r *http.Request, command func(uuid.UUID) error) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err = command(userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dayCommand(w http.ResponseWriter, r *http.Request, command func(uuid.UUID, int, int) error) {
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
	if err = command(userID, week, day); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
