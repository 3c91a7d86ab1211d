package model

import "time"

// Condition is the direction an alert watches for.
type Condition string

const (
	ConditionAbove Condition = "ABOVE"
	ConditionBelow Condition = "BELOW"
)

// Alert fires once when a symbol's price crosses TargetPrice in the given direction.
type Alert struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Symbol      string    `json:"symbol"`
	TargetPrice float64   `json:"target_price"`
	Condition   Condition `json:"condition"`
	Active      bool      `json:"active"`
	UserEmail   string    `json:"user_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AlertNotification is what gets sent when an alert triggers.
type AlertNotification struct {
	Symbol       string
	TargetPrice  float64
	CurrentPrice float64
	Condition    Condition
	UserEmail    string
}
