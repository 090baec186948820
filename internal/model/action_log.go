package model

import "time"

// ActionType is the kind of mutation recorded in the action log.
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// ActionLogEntry is one append-only audit row.
type ActionLogEntry struct {
	ID          int64      `json:"id"`
	ActionType  ActionType `json:"action_type"`
	EquipmentID int64      `json:"equipment_id"`
	UserID      int64      `json:"user_id"`
	Details     string     `json:"details"`
	CreatedAt   time.Time  `json:"created_at"`
}
