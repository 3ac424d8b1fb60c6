// ABOUTME: Draft types for entity creation
// ABOUTME: Structured, validated create payloads replacing free-text quick-add input
package models

import (
	"errors"
	"fmt"
	"time"
)

// ContactDraft is the payload for creating a contact. Enum fields left empty
// are omitted from the request so the service applies its defaults
// (stage=lead, heat=cold, await_status=none).
type ContactDraft struct {
	Name        string      `json:"name"`
	Phone       *string     `json:"phone,omitempty"`
	Email       *string     `json:"email,omitempty"`
	Stage       Stage       `json:"stage,omitempty"`
	Heat        Heat        `json:"heat,omitempty"`
	AwaitStatus AwaitStatus `json:"await_status,omitempty"`
	IsReal      bool        `json:"is_real,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

// Validate checks required fields and closed enumerations before dispatch.
func (d ContactDraft) Validate() error {
	if d.Name == "" {
		return errors.New("contact name is required")
	}
	if d.Stage != "" && !d.Stage.Valid() {
		return fmt.Errorf("invalid stage %q (want one of %v)", d.Stage, Stages())
	}
	if d.Heat != "" && !d.Heat.Valid() {
		return fmt.Errorf("invalid heat %q (want one of %v)", d.Heat, Heats())
	}
	if d.AwaitStatus != "" && !d.AwaitStatus.Valid() {
		return fmt.Errorf("invalid await_status %q (want one of %v)", d.AwaitStatus, AwaitStatuses())
	}
	return nil
}

// DealDraft is the payload for creating a deal. Column and priority left
// empty are omitted so the service applies novo/normal.
type DealDraft struct {
	ContactID int64    `json:"contact_id"`
	Title     string   `json:"title"`
	Value     float64  `json:"value,omitempty"`
	Column    Column   `json:"column,omitempty"`
	Priority  Priority `json:"priority,omitempty"`
	DueDate   *Date    `json:"due_date,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Validate checks required fields and closed enumerations before dispatch.
func (d DealDraft) Validate() error {
	if d.ContactID == 0 {
		return errors.New("deal contact_id is required")
	}
	if d.Title == "" {
		return errors.New("deal title is required")
	}
	if d.Value < 0 {
		return fmt.Errorf("deal value must be non-negative, got %v", d.Value)
	}
	if d.Column != "" && !d.Column.Valid() {
		return fmt.Errorf("invalid column %q (want one of %v)", d.Column, Columns())
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return fmt.Errorf("invalid priority %q (want one of %v)", d.Priority, Priorities())
	}
	return nil
}

// ObligationDraft is the payload for creating an obligation. Status left
// empty is omitted so the service applies open.
type ObligationDraft struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	DueDate     time.Time        `json:"due_date"`
	Status      ObligationStatus `json:"status,omitempty"`
	ContactID   *int64           `json:"contact_id,omitempty"`
}

// Validate checks required fields and closed enumerations before dispatch.
func (d ObligationDraft) Validate() error {
	if d.Title == "" {
		return errors.New("obligation title is required")
	}
	if d.DueDate.IsZero() {
		return errors.New("obligation due date is required")
	}
	if d.Status != "" && !d.Status.Valid() {
		return fmt.Errorf("invalid status %q (want one of %v)", d.Status, ObligationStatuses())
	}
	return nil
}
