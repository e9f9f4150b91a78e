package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTransactionChanged   = "transaction.changed"
	EventTypeTransactionsImported = "transactions.imported"
	EventTypeCategoriesImported   = "categories.imported"
	EventTypeUserSignedUp         = "user.signed_up"
	EventTypeBalancesRequested    = "balances.requested"
)

type TransactionChangedEvent struct {
	BaseEvent
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	Action        string `json:"action"`
}

func NewTransactionChangedEvent(userID, transactionID, accountID, action string) *TransactionChangedEvent {
	return &TransactionChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransactionChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":        userID,
				"transaction_id": transactionID,
				"account_id":     accountID,
				"action":         action,
			},
		},
		UserID:        userID,
		TransactionID: transactionID,
		AccountID:     accountID,
		Action:        action,
	}
}

type TransactionsImportedEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

func NewTransactionsImportedEvent(userID string, created, skipped int) *TransactionsImportedEvent {
	return &TransactionsImportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransactionsImported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"created": created,
				"skipped": skipped,
			},
		},
		UserID:  userID,
		Created: created,
		Skipped: skipped,
	}
}

type CategoriesImportedEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	Created int    `json:"created"`
}

func NewCategoriesImportedEvent(userID string, created int) *CategoriesImportedEvent {
	return &CategoriesImportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCategoriesImported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"created": created,
			},
		},
		UserID:  userID,
		Created: created,
	}
}

type UserSignedUpEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserSignedUpEvent(userID, email string) *UserSignedUpEvent {
	return &UserSignedUpEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserSignedUp,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}

// NewBalancesRequestedEvent asks subscribers to recompute balances for a user.
func NewBalancesRequestedEvent(userID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeBalancesRequested,
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"user_id": userID},
	}
}

// UserIDOf extracts the owning user from any of the finance events.
func UserIDOf(event Event) string {
	switch e := event.(type) {
	case *TransactionChangedEvent:
		return e.UserID
	case *TransactionsImportedEvent:
		return e.UserID
	case *CategoriesImportedEvent:
		return e.UserID
	case *UserSignedUpEvent:
		return e.UserID
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		if id, ok := data["user_id"].(string); ok {
			return id
		}
	}
	return ""
}
