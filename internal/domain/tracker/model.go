package tracker

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching the export document.
	decimal.MarshalJSONWithoutQuotes = true
}

const DateLayout = "2006-01-02"

type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusInactive:
		return true
	default:
		return false
	}
}

type Group struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"not null" json:"description"`
	MonthlyAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_amount"`
	Currency      string          `gorm:"size:8;not null" json:"currency"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
}

type Participant struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID             int64           `gorm:"index;not null" json:"group_id"`
	Name                string          `gorm:"not null" json:"name"`
	Email               string          `gorm:"not null" json:"email"`
	Phone               string          `gorm:"not null" json:"phone"`
	MonthlyContribution decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_contribution"`
	JoinedDate          string          `gorm:"size:10;not null" json:"joined_date"`
	Status              Status          `gorm:"size:16;not null" json:"status"`
}

type Contribution struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ParticipantID int64           `gorm:"index;not null" json:"participant_id"`
	GroupID       int64           `gorm:"index;not null" json:"group_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Note          string          `gorm:"not null" json:"note"`
	Date          string          `gorm:"size:10;not null" json:"date"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

// Snapshot is a consistent read of all three collections.
type Snapshot struct {
	Groups        []Group
	Participants  []Participant
	Contributions []Contribution
}

type ParticipantFilter struct {
	GroupID *int64
}

type ContributionFilter struct {
	GroupID       *int64
	ParticipantID *int64
}

type CreateGroupInput struct {
	Name          string
	Description   string
	MonthlyAmount decimal.Decimal
	Currency      string
	IsActive      *bool
}

type GroupPatch struct {
	Name          *string
	Description   *string
	MonthlyAmount *decimal.Decimal
	Currency      *string
	IsActive      *bool
}

type CreateParticipantInput struct {
	GroupID             int64
	Name                string
	Email               string
	Phone               string
	MonthlyContribution decimal.Decimal
	JoinedDate          string
	Status              Status
}

type ParticipantPatch struct {
	GroupID             *int64
	Name                *string
	Email               *string
	Phone               *string
	MonthlyContribution *decimal.Decimal
	JoinedDate          *string
	Status              *Status
}

type CreateContributionInput struct {
	ParticipantID int64
	Amount        decimal.Decimal
	Note          string
	Date          string
}

type ContributionPatch struct {
	ParticipantID *int64
	Amount        *decimal.Decimal
	Note          *string
	Date          *string
}

// ContributionChanges is the validated column set for a contribution
// update; GroupID is derived from the owning participant.
type ContributionChanges struct {
	ParticipantID *int64
	GroupID       *int64
	Amount        *decimal.Decimal
	Note          *string
	Date          *string
}
