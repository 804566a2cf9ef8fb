package analytics

import (
	"fmt"
	"sort"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"github.com/shopspring/decimal"
)

const DefaultTrendMonths = 6

var hundred = decimal.NewFromInt(100)

// Engine computes derived views over a snapshot. It never mutates its input.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

func NewEngine(now func() time.Time, loc *time.Location) *Engine {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{now: now, loc: loc}
}

func (e *Engine) CurrentMonth() YearMonth {
	return MonthOf(e.now().In(e.loc))
}

// Progress is collected as a percentage of target, unclamped. A zero
// target yields 0.
func Progress(collected, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	return collected.Mul(hundred).Div(target).InexactFloat64()
}

func ClampProgress(progress float64) float64 {
	switch {
	case progress < 0:
		return 0
	case progress > 100:
		return 100
	default:
		return progress
	}
}

func TierFor(progress float64) Tier {
	switch {
	case progress >= 100:
		return TierMet
	case progress >= 75:
		return TierClose
	default:
		return TierBehind
	}
}

type datedContribution struct {
	trackerdomain.Contribution
	month YearMonth
}

// classify splits contributions into dated records and data issues.
func (e *Engine) classify(contributions []trackerdomain.Contribution, scope Scope) ([]datedContribution, DataQuality) {
	dated := make([]datedContribution, 0, len(contributions))
	var quality DataQuality
	for _, contribution := range contributions {
		if !scope.includes(contribution.GroupID) {
			continue
		}
		month, ok := contributionMonth(contribution.Date, e.loc)
		if !ok {
			quality.Skipped++
			quality.Issues = append(quality.Issues, DataIssue{
				ContributionID: contribution.ID,
				Date:           contribution.Date,
				Reason:         "unparseable date",
			})
			continue
		}
		dated = append(dated, datedContribution{Contribution: contribution, month: month})
	}
	return dated, quality
}

func findGroup(snapshot trackerdomain.Snapshot, id int64) (trackerdomain.Group, bool) {
	for _, group := range snapshot.Groups {
		if group.ID == id {
			return group, true
		}
	}
	return trackerdomain.Group{}, false
}

func (e *Engine) GroupStats(snapshot trackerdomain.Snapshot, groupID int64) (GroupStats, error) {
	group, ok := findGroup(snapshot, groupID)
	if !ok {
		return GroupStats{}, trackerdomain.ErrGroupNotFound
	}

	current := e.CurrentMonth()
	stats := GroupStats{
		GroupID:                 group.ID,
		Month:                   current,
		MonthlyTarget:           group.MonthlyAmount,
		TotalCollectedThisMonth: decimal.Zero,
	}
	for _, participant := range snapshot.Participants {
		if participant.GroupID != group.ID {
			continue
		}
		stats.TotalParticipants++
		if participant.Status == trackerdomain.StatusActive {
			stats.ActiveParticipants++
		}
	}

	dated, quality := e.classify(snapshot.Contributions, GroupScope(group.ID))
	for _, contribution := range dated {
		if contribution.month == current {
			stats.TotalCollectedThisMonth = stats.TotalCollectedThisMonth.Add(contribution.Amount)
		}
	}

	stats.ProgressPercent = Progress(stats.TotalCollectedThisMonth, group.MonthlyAmount)
	stats.ProgressClamped = ClampProgress(stats.ProgressPercent)
	stats.Tier = TierFor(stats.ProgressPercent)
	stats.DataQuality = quality
	return stats, nil
}

// Pending lists active participants without a contribution dated in the
// current month.
func (e *Engine) Pending(snapshot trackerdomain.Snapshot, scope Scope) PendingReport {
	current := e.CurrentMonth()
	dated, quality := e.classify(snapshot.Contributions, scope)

	paid := make(map[int64]struct{})
	for _, contribution := range dated {
		if contribution.month == current {
			paid[contribution.ParticipantID] = struct{}{}
		}
	}

	report := PendingReport{
		Month:         current,
		Participants:  []trackerdomain.Participant{},
		ExpectedTotal: decimal.Zero,
		DataQuality:   quality,
	}
	for _, participant := range snapshot.Participants {
		if !scope.includes(participant.GroupID) || participant.Status != trackerdomain.StatusActive {
			continue
		}
		if _, ok := paid[participant.ID]; ok {
			continue
		}
		report.Participants = append(report.Participants, participant)
		report.ExpectedTotal = report.ExpectedTotal.Add(participant.MonthlyContribution)
	}
	report.Count = len(report.Participants)
	return report
}

func (e *Engine) Dashboard(snapshot trackerdomain.Snapshot) Dashboard {
	current := e.CurrentMonth()
	dashboard := Dashboard{
		Month:             current,
		LifetimeTotal:     decimal.Zero,
		CurrentMonthTotal: decimal.Zero,
	}

	for _, group := range snapshot.Groups {
		if group.IsActive {
			dashboard.ActiveGroups++
		}
	}
	for _, participant := range snapshot.Participants {
		if participant.Status == trackerdomain.StatusActive {
			dashboard.ActiveParticipants++
		}
	}
	for _, contribution := range snapshot.Contributions {
		dashboard.LifetimeTotal = dashboard.LifetimeTotal.Add(contribution.Amount)
	}

	dated, quality := e.classify(snapshot.Contributions, Scope{})
	for _, contribution := range dated {
		if contribution.month == current {
			dashboard.CurrentMonthTotal = dashboard.CurrentMonthTotal.Add(contribution.Amount)
		}
	}
	dashboard.DataQuality = quality
	return dashboard
}

// Trend returns exactly months buckets, oldest first, ending with the
// current month.
func (e *Engine) Trend(snapshot trackerdomain.Snapshot, scope Scope, months int) Trend {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	current := e.CurrentMonth()
	first := current.AddMonths(-(months - 1))

	points := make([]TrendPoint, months)
	for i := range points {
		points[i] = TrendPoint{Month: first.AddMonths(i), Total: decimal.Zero}
	}

	dated, quality := e.classify(snapshot.Contributions, scope)
	for _, contribution := range dated {
		if contribution.month.Before(first) || contribution.month.After(current) {
			continue
		}
		slot := contribution.month.index() - first.index()
		points[slot].Total = points[slot].Total.Add(contribution.Amount)
		points[slot].Count++
	}

	return Trend{Points: points, DataQuality: quality}
}

// MonthRange is the span a group's history can be browsed over: its
// creation month through the current month.
func (e *Engine) MonthRange(group trackerdomain.Group) (YearMonth, YearMonth) {
	latest := e.CurrentMonth()
	earliest := MonthOf(group.CreatedAt.In(e.loc))
	if group.CreatedAt.IsZero() || earliest.After(latest) {
		earliest = latest
	}
	return earliest, latest
}

func (e *Engine) Navigation(group trackerdomain.Group, month YearMonth) Navigation {
	earliest, latest := e.MonthRange(group)
	return Navigation{
		Earliest:    earliest,
		Latest:      latest,
		CanPrevious: month.After(earliest),
		CanNext:     month.Before(latest),
	}
}

func (e *Engine) ClampMonth(group trackerdomain.Group, month YearMonth) YearMonth {
	earliest, latest := e.MonthRange(group)
	switch {
	case month.Before(earliest):
		return earliest
	case month.After(latest):
		return latest
	default:
		return month
	}
}

// MonthOptions lists every browsable month, newest first.
func (e *Engine) MonthOptions(group trackerdomain.Group) []YearMonth {
	earliest, latest := e.MonthRange(group)
	options := make([]YearMonth, 0, latest.index()-earliest.index()+1)
	for month := latest; !month.Before(earliest); month = month.AddMonths(-1) {
		options = append(options, month)
	}
	return options
}

func (e *Engine) MonthBreakdown(snapshot trackerdomain.Snapshot, groupID int64, month YearMonth) (MonthBreakdown, error) {
	group, ok := findGroup(snapshot, groupID)
	if !ok {
		return MonthBreakdown{}, trackerdomain.ErrGroupNotFound
	}
	earliest, latest := e.MonthRange(group)
	if month.Before(earliest) || month.After(latest) {
		return MonthBreakdown{}, fmt.Errorf("%w: %s is outside %s..%s", ErrMonthOutOfRange, month, earliest, latest)
	}

	dated, quality := e.classify(snapshot.Contributions, GroupScope(group.ID))
	byParticipant := make(map[int64][]trackerdomain.Contribution)
	for _, contribution := range dated {
		if contribution.month == month {
			byParticipant[contribution.ParticipantID] = append(byParticipant[contribution.ParticipantID], contribution.Contribution)
		}
	}

	breakdown := MonthBreakdown{
		GroupID:        group.ID,
		Month:          month,
		MonthlyTarget:  group.MonthlyAmount,
		TotalCollected: decimal.Zero,
		Participants:   []ParticipantMonth{},
		Navigation:     e.Navigation(group, month),
		DataQuality:    quality,
	}
	for _, participant := range snapshot.Participants {
		if participant.GroupID != group.ID {
			continue
		}
		if participant.Status == trackerdomain.StatusActive {
			breakdown.ActiveParticipants++
		}

		contributions := byParticipant[participant.ID]
		if contributions == nil {
			contributions = []trackerdomain.Contribution{}
		}
		total := decimal.Zero
		for _, contribution := range contributions {
			total = total.Add(contribution.Amount)
		}

		entry := ParticipantMonth{
			Participant:    participant,
			Contributions:  contributions,
			TotalAmount:    total,
			HasContributed: len(contributions) > 0,
		}
		if entry.HasContributed {
			breakdown.ContributedParticipants++
		}
		breakdown.ContributionCount += len(contributions)
		breakdown.TotalCollected = breakdown.TotalCollected.Add(total)
		breakdown.Participants = append(breakdown.Participants, entry)
	}

	breakdown.ProgressPercent = Progress(breakdown.TotalCollected, group.MonthlyAmount)
	breakdown.Tier = TierFor(breakdown.ProgressPercent)
	return breakdown, nil
}

// GroupHistory summarizes every month that has contributions, oldest first.
func (e *Engine) GroupHistory(snapshot trackerdomain.Snapshot, groupID int64) (History, error) {
	group, ok := findGroup(snapshot, groupID)
	if !ok {
		return History{}, trackerdomain.ErrGroupNotFound
	}

	dated, quality := e.classify(snapshot.Contributions, GroupScope(group.ID))
	rows := make(map[YearMonth]*HistoryMonth)
	contributors := make(map[YearMonth]map[int64]struct{})
	for _, contribution := range dated {
		row, ok := rows[contribution.month]
		if !ok {
			row = &HistoryMonth{Month: contribution.month, Total: decimal.Zero}
			rows[contribution.month] = row
			contributors[contribution.month] = make(map[int64]struct{})
		}
		row.Total = row.Total.Add(contribution.Amount)
		row.Count++
		contributors[contribution.month][contribution.ParticipantID] = struct{}{}
	}

	months := make([]HistoryMonth, 0, len(rows))
	for month, row := range rows {
		row.UniqueParticipants = len(contributors[month])
		months = append(months, *row)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month.Before(months[j].Month) })

	return History{GroupID: group.ID, Months: months, DataQuality: quality}, nil
}
