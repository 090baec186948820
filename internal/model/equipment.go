package model

import (
	"time"
)

// Advisory equipment statuses. The store does not constrain the column.
const (
	StatusActive   = "Active"
	StatusInRepair = "In Repair"
	StatusInactive = "Inactive"
	StatusDisposed = "Disposed"
)

// KnownStatuses lists the statuses the UI offers.
var KnownStatuses = []string{StatusActive, StatusInRepair, StatusInactive, StatusDisposed}

// Equipment represents a piece of office equipment in the inventory.
type Equipment struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	PurchaseDate string    `json:"purchase_date"`
	Details      string    `json:"details"`
	Status       string    `json:"status"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// EquipmentInput is the body accepted by create and full update.
type EquipmentInput struct {
	Type         string `json:"type" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=255"`
	PurchaseDate string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Details      string `json:"details"`
	Status       string `json:"status" validate:"required,max=32"`
}

// Apply copies the mutable fields of the input onto e.
func (in EquipmentInput) Apply(e *Equipment) {
	e.Type = in.Type
	e.Name = in.Name
	e.PurchaseDate = in.PurchaseDate
	e.Details = in.Details
	e.Status = in.Status
}
