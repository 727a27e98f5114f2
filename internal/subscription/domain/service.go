package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, req ListSubscriptionRequest) ([]Subscription, error)
	Get(ctx context.Context, id string) (SubscriptionDetail, error)
}

type ListSubscriptionRequest struct {
	Status string
	UserID string
	Limit  int
}

type SubscriptionDetail struct {
	Subscription
	Lines []SubscriptionLine `json:"lines"`
}

var (
	ErrInvalidSubscription  = errors.New("invalid_subscription")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidUser          = errors.New("invalid_user")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
