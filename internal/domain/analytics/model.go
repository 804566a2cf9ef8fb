package analytics

import (
	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierBehind Tier = "red"
	TierClose  Tier = "amber"
	TierMet    Tier = "green"
)

// Scope limits a computation to one group; a nil GroupID means all groups.
type Scope struct {
	GroupID *int64
}

func GroupScope(id int64) Scope {
	return Scope{GroupID: &id}
}

func (s Scope) includes(groupID int64) bool {
	return s.GroupID == nil || *s.GroupID == groupID
}

// DataIssue describes a contribution left out of date-based totals.
type DataIssue struct {
	ContributionID int64  `json:"contribution_id"`
	Date           string `json:"date"`
	Reason         string `json:"reason"`
}

type DataQuality struct {
	Skipped int         `json:"skipped"`
	Issues  []DataIssue `json:"issues,omitempty"`
}

type GroupStats struct {
	GroupID                 int64           `json:"group_id"`
	Month                   YearMonth       `json:"month"`
	ActiveParticipants      int             `json:"active_participants"`
	TotalParticipants       int             `json:"total_participants"`
	MonthlyTarget           decimal.Decimal `json:"monthly_target"`
	TotalCollectedThisMonth decimal.Decimal `json:"total_collected_this_month"`
	ProgressPercent         float64         `json:"progress_percent"`
	ProgressClamped         float64         `json:"progress_clamped"`
	Tier                    Tier            `json:"tier"`
	DataQuality
}

type PendingReport struct {
	Month         YearMonth                   `json:"month"`
	Participants  []trackerdomain.Participant `json:"participants"`
	Count         int                         `json:"count"`
	ExpectedTotal decimal.Decimal             `json:"expected_total"`
	DataQuality
}

type Dashboard struct {
	Month              YearMonth       `json:"month"`
	ActiveGroups       int             `json:"active_groups"`
	ActiveParticipants int             `json:"active_participants"`
	LifetimeTotal      decimal.Decimal `json:"lifetime_total"`
	CurrentMonthTotal  decimal.Decimal `json:"current_month_total"`
	DataQuality
}

type TrendPoint struct {
	Month YearMonth       `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type Trend struct {
	Points []TrendPoint `json:"points"`
	DataQuality
}

type Navigation struct {
	Earliest    YearMonth `json:"earliest"`
	Latest      YearMonth `json:"latest"`
	CanPrevious bool      `json:"can_previous"`
	CanNext     bool      `json:"can_next"`
}

type ParticipantMonth struct {
	Participant    trackerdomain.Participant    `json:"participant"`
	Contributions  []trackerdomain.Contribution `json:"contributions"`
	TotalAmount    decimal.Decimal              `json:"total_amount"`
	HasContributed bool                         `json:"has_contributed"`
}

type MonthBreakdown struct {
	GroupID                 int64              `json:"group_id"`
	Month                   YearMonth          `json:"month"`
	MonthlyTarget           decimal.Decimal    `json:"monthly_target"`
	TotalCollected          decimal.Decimal    `json:"total_collected"`
	ContributionCount       int                `json:"contribution_count"`
	ActiveParticipants      int                `json:"active_participants"`
	ContributedParticipants int                `json:"contributed_participants"`
	ProgressPercent         float64            `json:"progress_percent"`
	Tier                    Tier               `json:"tier"`
	Participants            []ParticipantMonth `json:"participants"`
	Navigation              Navigation         `json:"navigation"`
	DataQuality
}

type HistoryMonth struct {
	Month              YearMonth       `json:"month"`
	Total              decimal.Decimal `json:"total"`
	Count              int             `json:"count"`
	UniqueParticipants int             `json:"unique_participants"`
}

type History struct {
	GroupID int64          `json:"group_id"`
	Months  []HistoryMonth `json:"months"`
	DataQuality
}
