package model

import (
	"github.com/Astemirdum/library-lending/pkg/auth"
)

type MediaType string

const (
	MediaBook  MediaType = "book"
	MediaMovie MediaType = "movie"
)

func (m MediaType) Valid() bool {
	return m == MediaBook || m == MediaMovie
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Name         string    `json:"name" db:"name"`
	Role         auth.Role `json:"role" db:"role"`
	MembershipID *int64    `json:"membershipId,omitempty" db:"membership_id"`
}

type Book struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	SerialNo  string    `json:"serial_no" db:"serial_no"`
	MediaType MediaType `json:"media_type" db:"media_type"`
	Category  string    `json:"category" db:"category"`
	Available bool      `json:"available" db:"available"`
}

type Membership struct {
	ID               int64  `json:"id" db:"id"`
	MembershipNumber string `json:"membership_number" db:"membership_number"`
	Name             string `json:"name" db:"name"`
	MembershipType   string `json:"type" db:"membership_type"`
	StartDate        Date   `json:"start_date" db:"start_date"`
	EndDate          Date   `json:"end_date" db:"end_date"`
	Active           bool   `json:"active" db:"active"`
}

// ValidOn reports whether the membership is active and on lies inside
// [StartDate, EndDate].
func (m Membership) ValidOn(on Date) bool {
	return m.Active && !on.Before(m.StartDate) && !on.After(m.EndDate)
}

// Policy holds the lending rules the engine and reports apply.
type Policy struct {
	FinePerDay int `envconfig:"LENDING_FINE_PER_DAY" default:"10"`
	LoanDays   int `envconfig:"LENDING_LOAN_DAYS" default:"15"`
}

func DefaultPolicy() Policy {
	return Policy{FinePerDay: 10, LoanDays: 15}
}

// Fine is the charge for returning on a book due on due. Early and on-time
// returns cost nothing.
func (p Policy) Fine(due, returned Date) int {
	return p.FinePerDay * DaysLate(due, returned)
}

func DaysLate(due, on Date) int {
	if days := due.DaysUntil(on); days > 0 {
		return days
	}
	return 0
}
