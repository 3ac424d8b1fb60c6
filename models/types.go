// ABOUTME: Data models for CRM entities mirrored from the entity service
// ABOUTME: Defines Contact, Deal, and Obligation structs plus their closed enumerations
package models

import (
	"fmt"
	"time"
)

type Contact struct {
	ID          int64       `json:"id"`
	OwnerUserID int64       `json:"owner_user_id"`
	Name        string      `json:"name"`
	Phone       *string     `json:"phone,omitempty"`
	Email       *string     `json:"email,omitempty"`
	Stage       Stage       `json:"stage"`
	Heat        Heat        `json:"heat"`
	AwaitStatus AwaitStatus `json:"await_status"`
	IsReal      bool        `json:"is_real"`
	Notes       *string     `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Deal struct {
	ID        int64     `json:"id"`
	ContactID int64     `json:"contact_id"`
	Title     string    `json:"title"`
	Value     float64   `json:"value"`
	Column    Column    `json:"column"`
	Priority  Priority  `json:"priority"`
	DueDate   *Date     `json:"due_date,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Obligation struct {
	ID          int64            `json:"id"`
	OwnerUserID int64            `json:"owner_user_id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	DueDate     time.Time        `json:"due_date"`
	Status      ObligationStatus `json:"status"`
	ContactID   *int64           `json:"contact_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Key returns the server-assigned identity used for collection lookups.
func (c Contact) Key() int64 { return c.ID }

func (d Deal) Key() int64 { return d.ID }

func (o Obligation) Key() int64 { return o.ID }

// Stage is the contact lifecycle stage.
type Stage string

const (
	StageLead   Stage = "lead"
	StageClient Stage = "client"
)

// Heat is the contact temperature rating.
type Heat string

const (
	HeatHot  Heat = "hot"
	HeatWarm Heat = "warm"
	HeatCold Heat = "cold"
)

// AwaitStatus tracks who the next move is on.
type AwaitStatus string

const (
	AwaitNone    AwaitStatus = "none"
	AwaitClient  AwaitStatus = "awaiting_client"
	AwaitUs      AwaitStatus = "awaiting_us"
	AwaitPayment AwaitStatus = "awaiting_payment"
)

// Column is the deal's pipeline stage on the kanban board.
type Column string

const (
	ColumnNovo         Column = "novo"
	ColumnQualificacao Column = "qualificacao"
	ColumnProposta     Column = "proposta"
	ColumnFechamento   Column = "fechamento"
	ColumnGanho        Column = "ganho"
	ColumnPerdido      Column = "perdido"
)

// Priority constants.
type Priority string

const (
	PriorityBaixa  Priority = "baixa"
	PriorityNormal Priority = "normal"
	PriorityAlta   Priority = "alta"
)

// ObligationStatus constants.
type ObligationStatus string

const (
	ObligationOpen ObligationStatus = "open"
	ObligationDone ObligationStatus = "done"
)

// Stages lists the closed stage set in rendering order.
func Stages() []Stage { return []Stage{StageLead, StageClient} }

// Heats lists the closed heat set in rendering order.
func Heats() []Heat { return []Heat{HeatHot, HeatWarm, HeatCold} }

// AwaitStatuses lists the closed await set in rendering order.
func AwaitStatuses() []AwaitStatus {
	return []AwaitStatus{AwaitNone, AwaitClient, AwaitUs, AwaitPayment}
}

// Columns lists the pipeline columns in board order.
func Columns() []Column {
	return []Column{ColumnNovo, ColumnQualificacao, ColumnProposta, ColumnFechamento, ColumnGanho, ColumnPerdido}
}

// Priorities lists the closed priority set in rendering order.
func Priorities() []Priority { return []Priority{PriorityBaixa, PriorityNormal, PriorityAlta} }

// ObligationStatuses lists the closed obligation status set.
func ObligationStatuses() []ObligationStatus {
	return []ObligationStatus{ObligationOpen, ObligationDone}
}

func (s Stage) Valid() bool {
	return s == StageLead || s == StageClient
}

func (h Heat) Valid() bool {
	return h == HeatHot || h == HeatWarm || h == HeatCold
}

func (a AwaitStatus) Valid() bool {
	return a == AwaitNone || a == AwaitClient || a == AwaitUs || a == AwaitPayment
}

func (c Column) Valid() bool {
	for _, col := range Columns() {
		if c == col {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	return p == PriorityBaixa || p == PriorityNormal || p == PriorityAlta
}

func (s ObligationStatus) Valid() bool {
	return s == ObligationOpen || s == ObligationDone
}

// ParseStage converts user input into a Stage or reports the allowed values.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !v.Valid() {
		return "", fmt.Errorf("invalid stage %q (want one of %v)", s, Stages())
	}
	return v, nil
}

// ParseHeat converts user input into a Heat or reports the allowed values.
func ParseHeat(s string) (Heat, error) {
	v := Heat(s)
	if !v.Valid() {
		return "", fmt.Errorf("invalid heat %q (want one of %v)", s, Heats())
	}
	return v, nil
}

// ParseAwaitStatus converts user input into an AwaitStatus or reports the allowed values.
func ParseAwaitStatus(s string) (AwaitStatus, error) {
	v := AwaitStatus(s)
	if !v.Valid() {
		return "", fmt.Errorf("invalid await_status %q (want one of %v)", s, AwaitStatuses())
	}
	return v, nil
}

// ParseColumn converts user input into a Column or reports the allowed values.
func ParseColumn(s string) (Column, error) {
	v := Column(s)
	if !v.Valid() {
		return "", fmt.Errorf("invalid column %q (want one of %v)", s, Columns())
	}
	return v, nil
}

// ParsePriority converts user input into a Priority or reports the allowed values.
func ParsePriority(s string) (Priority, error) {
	v := Priority(s)
	if !v.Valid() {
		return "", fmt.Errorf("invalid priority %q (want one of %v)", s, Priorities())
	}
	return v, nil
}

// ParseObligationStatus converts user input into an ObligationStatus or reports the allowed values.
func ParseObligationStatus(s string) (ObligationStatus, error) {
	v := ObligationStatus(s)
	if !v.Valid() {
		return "", fmt.Errorf("invalid status %q (want one of %v)", s, ObligationStatuses())
	}
	return v, nil
}

// Date is a calendar date without a time component, the wire format the
// service uses for deal due dates ("2006-01-02").
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	t, err := time.Parse(time.DateOnly, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}
	d.Time = t
	return nil
}
