package model

import "github.com/google/uuid"

type UserRegistered struct {
	UserID uuid.UUID
	Email  string
}

func (e UserRegistered) Type() string { return "UserRegistered" }

type UserSubscriptionChanged struct {
	UserID     uuid.UUID
	Subscribed bool
}

func (e UserSubscriptionChanged) Type() string { return "UserSubscriptionChanged" }
