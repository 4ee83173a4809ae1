package service

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthcare/pkg/common/domain"
	"healthcare/pkg/user/domain/model"
)

type UserService interface {
	RegisterUser(email string) (*model.User, error)
	GetUser(userID uuid.UUID) (*model.User, error)
	SetSubscription(userID uuid.UUID, subscribed bool) error
}

func NewUserService(repo model.UserRepository, dispatcher domain.EventDispatcher) UserService {
	return &userService{repo: repo, dispatcher: dispatcher}
}

type userService struct {
	repo       model.UserRepository
	dispatcher domain.EventDispatcher
}

func (s *userService) RegisterUser(email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, model.ErrInvalidEmail
	}

	if _, err := s.repo.FindByEmail(email); err == nil {
		return nil, model.ErrEmailTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	userID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        userID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.UserRegistered{UserID: userID, Email: email})
	return user, nil
}

func (s *userService) GetUser(userID uuid.UUID) (*model.User, error) {
	return s.repo.Find(userID)
}

func (s *userService) SetSubscription(userID uuid.UUID, subscribed bool) error {
	user, err := s.repo.Find(userID)
	if err != nil {
		return err
	}
	if user.Subscribed == subscribed {
		return nil
	}

	user.Subscribed = subscribed
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(user); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.UserSubscriptionChanged{UserID: userID, Subscribed: subscribed})
	return nil
}
