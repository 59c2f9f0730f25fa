package domain

import "io"

// DefaultPct is the VAT percentage applied when the form leaves it empty.
const DefaultPct = 20

// Status is the approval state of a bill.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// UserType distinguishes employees from administrators.
type UserType string

const (
	UserEmployee UserType = "Employee"
	UserAdmin    UserType = "Admin"
)

// Session identifies the connected user. It is read-only input to the
// containers; it is created at login and carried in a signed cookie.
type Session struct {
	Type  UserType `json:"type"`
	Email string   `json:"email"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool { return s.Type == UserAdmin }

// Scope returns the listing scope for the session: admins see every bill,
// employees only their own.
func (s Session) Scope() ListScope {
	if s.IsAdmin() {
		return ListScope{All: true}
	}
	return ListScope{Email: s.Email}
}

// ListScope narrows a bill listing.
type ListScope struct {
	Email string
	All   bool
}

// Bill is an expense record as stored.
type Bill struct {
	ID           string
	Email        string
	Type         string // expense category, e.g. "Transports"
	Name         string
	Date         string  // ISO date, e.g. "2004-04-04"
	Amount       float64 // euros, VAT included
	VAT          string
	Pct          int
	Status       Status
	Commentary   string
	CommentAdmin string
	FileURL      string
	FileName     string
}

// DisplayBill is the UI projection of a Bill. It is rebuilt on every render.
type DisplayBill struct {
	ID           string
	Email        string
	Type         string
	Name         string
	Date         string // formatted, or the raw value when DateInvalid
	RawDate      string
	DateInvalid  bool
	Amount       float64
	AmountLabel  string
	Status       Status
	StatusLabel  string
	Commentary   string
	CommentAdmin string
	FileURL      string
	FileName     string
}

// StatusGroup is one column of the administrator dashboard.
type StatusGroup struct {
	Status Status
	Label  string
	Bills  []DisplayBill
}

// NewBill is the creation payload sent to the store.
type NewBill struct {
	Email      string
	Type       string
	Name       string
	Date       string
	Amount     float64
	VAT        string
	Pct        int
	Commentary string
	Status     Status
	FileName   string
	Receipt    io.Reader
}

// BillPatch carries the fields an administrator may change. Nil fields are
// left untouched.
type BillPatch struct {
	Status       *Status
	CommentAdmin *string
}

// Receipt locates a stored receipt file.
type Receipt struct {
	Key string
	URL string
}

// ExpenseTypes lists the categories offered by the new-bill form.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}
