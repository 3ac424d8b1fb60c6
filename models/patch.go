// ABOUTME: Patch types for partial entity updates
// ABOUTME: Nil fields are left out of the request and stay unchanged on the server
package models

import "time"

// ContactPatch carries the changed fields of a contact update.
type ContactPatch struct {
	Name        *string      `json:"name,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Stage       *Stage       `json:"stage,omitempty"`
	Heat        *Heat        `json:"heat,omitempty"`
	AwaitStatus *AwaitStatus `json:"await_status,omitempty"`
	IsReal      *bool        `json:"is_real,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil &&
		p.Stage == nil && p.Heat == nil && p.AwaitStatus == nil &&
		p.IsReal == nil && p.Notes == nil
}

// Apply copies the set fields onto a contact. The server does the same on
// its side; applying locally keeps the optimistic copy in step.
func (p ContactPatch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.Email != nil {
		c.Email = p.Email
	}
	if p.Stage != nil {
		c.Stage = *p.Stage
	}
	if p.Heat != nil {
		c.Heat = *p.Heat
	}
	if p.AwaitStatus != nil {
		c.AwaitStatus = *p.AwaitStatus
	}
	if p.IsReal != nil {
		c.IsReal = *p.IsReal
	}
	if p.Notes != nil {
		c.Notes = p.Notes
	}
}

// DealPatch carries the changed fields of a deal update.
type DealPatch struct {
	ContactID *int64    `json:"contact_id,omitempty"`
	Title     *string   `json:"title,omitempty"`
	Value     *float64  `json:"value,omitempty"`
	Column    *Column   `json:"column,omitempty"`
	Priority  *Priority `json:"priority,omitempty"`
	DueDate   *Date     `json:"due_date,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p DealPatch) Empty() bool {
	return p.ContactID == nil && p.Title == nil && p.Value == nil &&
		p.Column == nil && p.Priority == nil && p.DueDate == nil && p.Tags == nil
}

// Apply copies the set fields onto a deal.
func (p DealPatch) Apply(d *Deal) {
	if p.ContactID != nil {
		d.ContactID = *p.ContactID
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.Column != nil {
		d.Column = *p.Column
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d.DueDate = p.DueDate
	}
	if p.Tags != nil {
		d.Tags = *p.Tags
	}
}

// ObligationPatch carries the changed fields of an obligation update.
type ObligationPatch struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Status      *ObligationStatus `json:"status,omitempty"`
	ContactID   *int64            `json:"contact_id,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ObligationPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Status == nil && p.ContactID == nil
}

// Apply copies the set fields onto an obligation.
func (p ObligationPatch) Apply(o *Obligation) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Description != nil {
		o.Description = p.Description
	}
	if p.DueDate != nil {
		o.DueDate = *p.DueDate
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.ContactID != nil {
		o.ContactID = p.ContactID
	}
}
