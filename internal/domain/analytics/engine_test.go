package analytics

import (
	"errors"
	"math"
	"testing"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"github.com/shopspring/decimal"
)

func fixedEngine(year int, month time.Month, day int) *Engine {
	now := time.Date(year, month, day, 9, 30, 0, 0, time.UTC)
	return NewEngine(func() time.Time { return now }, time.UTC)
}

func amount(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func footballSnapshot() trackerdomain.Snapshot {
	return trackerdomain.Snapshot{
		Groups: []trackerdomain.Group{{
			ID:            1,
			Name:          "Football Club",
			MonthlyAmount: amount(200),
			Currency:      "USD",
			CreatedAt:     time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
			IsActive:      true,
		}},
		Participants: []trackerdomain.Participant{{
			ID:                  10,
			GroupID:             1,
			Name:                "John",
			MonthlyContribution: amount(50),
			JoinedDate:          "2025-11-20",
			Status:              trackerdomain.StatusActive,
		}},
	}
}

func TestProgressGuard(t *testing.T) {
	for _, collected := range []int64{0, 50, 1000} {
		got := Progress(amount(collected), decimal.Zero)
		if got != 0 || math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("expected 0 progress for zero target, got %v", got)
		}
	}
	if got := Progress(amount(300), amount(200)); got != 150 {
		t.Fatalf("expected unclamped 150, got %v", got)
	}
	if got := ClampProgress(150); got != 100 {
		t.Fatalf("expected clamp to 100, got %v", got)
	}
}

func TestTierThresholds(t *testing.T) {
	cases := map[float64]Tier{
		0:      TierBehind,
		74.99:  TierBehind,
		75:     TierClose,
		99.99:  TierClose,
		100:    TierMet,
		180.50: TierMet,
	}
	for progress, want := range cases {
		if got := TierFor(progress); got != want {
			t.Fatalf("TierFor(%v) = %s, want %s", progress, got, want)
		}
	}
}

func TestTrendAlwaysReturnsRequestedBuckets(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)

	trend := engine.Trend(trackerdomain.Snapshot{}, Scope{}, 6)
	if len(trend.Points) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(trend.Points))
	}
	if trend.Points[0].Month.String() != "2025-10" || trend.Points[5].Month.String() != "2026-03" {
		t.Fatalf("unexpected window %s..%s", trend.Points[0].Month, trend.Points[5].Month)
	}
	for _, point := range trend.Points {
		if !point.Total.IsZero() {
			t.Fatalf("expected empty bucket for %s, got %s", point.Month, point.Total)
		}
	}
}

func TestTrendSumsWindowOnly(t *testing.T) {
	engine := fixedEngine(2026, time.February, 3)
	snapshot := footballSnapshot()
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(10), Date: "2025-08-31"},
		{ID: 2, ParticipantID: 10, GroupID: 1, Amount: amount(20), Date: "2025-09-01"},
		{ID: 3, ParticipantID: 10, GroupID: 1, Amount: amount(30), Date: "2025-12-15"},
		{ID: 4, ParticipantID: 10, GroupID: 1, Amount: amount(40), Date: "2026-02-01"},
		{ID: 5, ParticipantID: 10, GroupID: 2, Amount: amount(99), Date: "2026-02-01"},
		{ID: 6, ParticipantID: 10, GroupID: 1, Amount: amount(70), Date: "2026-03-01"},
	}

	trend := engine.Trend(snapshot, GroupScope(1), 6)
	if len(trend.Points) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(trend.Points))
	}
	if trend.Points[0].Month.String() != "2025-09" {
		t.Fatalf("expected window to start 2025-09, got %s", trend.Points[0].Month)
	}

	sum := decimal.Zero
	for _, point := range trend.Points {
		sum = sum.Add(point.Total)
	}
	if !sum.Equal(amount(90)) {
		t.Fatalf("expected window sum 90, got %s", sum)
	}
	if !trend.Points[3].Total.Equal(amount(30)) {
		t.Fatalf("expected December bucket 30, got %s", trend.Points[3].Total)
	}
}

func TestPendingDetection(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	snapshot := footballSnapshot()
	snapshot.Participants = append(snapshot.Participants,
		trackerdomain.Participant{ID: 11, GroupID: 1, Name: "Jane", MonthlyContribution: amount(75), Status: trackerdomain.StatusActive},
		trackerdomain.Participant{ID: 12, GroupID: 1, Name: "Mike", MonthlyContribution: amount(60), Status: trackerdomain.StatusInactive},
	)
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 11, GroupID: 1, Amount: amount(75), Date: "2026-03-02"},
		{ID: 2, ParticipantID: 11, GroupID: 1, Amount: amount(75), Date: "2026-03-05"},
		{ID: 3, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-02-15"},
	}

	report := engine.Pending(snapshot, Scope{})
	if report.Count != 1 || len(report.Participants) != 1 {
		t.Fatalf("expected exactly one pending participant, got %d", report.Count)
	}
	if report.Participants[0].ID != 10 {
		t.Fatalf("expected John pending, got %s", report.Participants[0].Name)
	}
	if !report.ExpectedTotal.Equal(amount(50)) {
		t.Fatalf("expected expected total 50, got %s", report.ExpectedTotal)
	}

	other := engine.Pending(snapshot, GroupScope(2))
	if other.Count != 0 {
		t.Fatalf("expected no pending participants for another group, got %d", other.Count)
	}
}

func TestFootballClubScenario(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	snapshot := footballSnapshot()
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-03-04"},
	}

	stats, err := engine.GroupStats(snapshot, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !stats.TotalCollectedThisMonth.Equal(amount(50)) {
		t.Fatalf("expected 50 collected, got %s", stats.TotalCollectedThisMonth)
	}
	if stats.ProgressPercent != 25 {
		t.Fatalf("expected 25%% progress, got %v", stats.ProgressPercent)
	}
	if stats.Tier != TierBehind {
		t.Fatalf("expected red tier, got %s", stats.Tier)
	}
	if pending := engine.Pending(snapshot, GroupScope(1)); pending.Count != 0 {
		t.Fatalf("expected John not pending, got %d pending", pending.Count)
	}

	snapshot.Contributions = nil
	pending := engine.Pending(snapshot, GroupScope(1))
	if pending.Count != 1 || pending.Participants[0].Name != "John" {
		t.Fatalf("expected John pending after delete, got %+v", pending.Participants)
	}
	if !pending.ExpectedTotal.Equal(amount(50)) {
		t.Fatalf("expected expected amount 50, got %s", pending.ExpectedTotal)
	}
}

func TestMalformedDatesAreSkipped(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	snapshot := footballSnapshot()
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-03-04"},
		{ID: 2, ParticipantID: 10, GroupID: 1, Amount: amount(25), Date: "March 4th"},
	}

	stats, err := engine.GroupStats(snapshot, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !stats.TotalCollectedThisMonth.Equal(amount(50)) {
		t.Fatalf("expected malformed record excluded, got %s", stats.TotalCollectedThisMonth)
	}
	if stats.Skipped != 1 || stats.Issues[0].ContributionID != 2 {
		t.Fatalf("expected one reported issue, got %+v", stats.DataQuality)
	}

	trend := engine.Trend(snapshot, Scope{}, 6)
	if trend.Skipped != 1 || len(trend.Points) != 6 {
		t.Fatalf("expected trend to skip one record, got %+v", trend.DataQuality)
	}
}

func TestTimestampDatesUseEngineLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	engine := NewEngine(func() time.Time { return now }, loc)
	snapshot := footballSnapshot()
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-02-28T23:00:00Z"},
	}

	stats, err := engine.GroupStats(snapshot, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !stats.TotalCollectedThisMonth.Equal(amount(50)) {
		t.Fatalf("expected timestamp to land in March local time, got %s", stats.TotalCollectedThisMonth)
	}
}

func TestDashboardTotals(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	snapshot := footballSnapshot()
	snapshot.Groups = append(snapshot.Groups, trackerdomain.Group{ID: 2, Name: "Old", IsActive: false})
	snapshot.Participants = append(snapshot.Participants, trackerdomain.Participant{ID: 11, GroupID: 2, Name: "Jane", Status: trackerdomain.StatusPending})
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-03-04"},
		{ID: 2, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-02-04"},
		{ID: 3, ParticipantID: 11, GroupID: 2, Amount: amount(20), Date: "bad"},
	}

	dashboard := engine.Dashboard(snapshot)
	if dashboard.ActiveGroups != 1 || dashboard.ActiveParticipants != 1 {
		t.Fatalf("unexpected counts %+v", dashboard)
	}
	if !dashboard.LifetimeTotal.Equal(amount(120)) {
		t.Fatalf("expected lifetime 120, got %s", dashboard.LifetimeTotal)
	}
	if !dashboard.CurrentMonthTotal.Equal(amount(50)) {
		t.Fatalf("expected current month 50, got %s", dashboard.CurrentMonthTotal)
	}
	if dashboard.Skipped != 1 {
		t.Fatalf("expected one skipped record, got %d", dashboard.Skipped)
	}
}

func TestMonthBreakdownBounds(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	snapshot := footballSnapshot()

	for _, month := range []YearMonth{{2025, time.October}, {2026, time.April}} {
		_, err := engine.MonthBreakdown(snapshot, 1, month)
		if !errors.Is(err, ErrMonthOutOfRange) {
			t.Fatalf("expected ErrMonthOutOfRange for %s, got %v", month, err)
		}
	}

	if got := engine.ClampMonth(snapshot.Groups[0], YearMonth{2020, time.January}); got.String() != "2025-11" {
		t.Fatalf("expected clamp to creation month, got %s", got)
	}
	if got := engine.ClampMonth(snapshot.Groups[0], YearMonth{2030, time.January}); got.String() != "2026-03" {
		t.Fatalf("expected clamp to current month, got %s", got)
	}

	if _, err := engine.MonthBreakdown(snapshot, 99, YearMonth{2026, time.March}); !errors.Is(err, trackerdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing group, got %v", err)
	}
}

func TestMonthBreakdownParticipants(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	snapshot := footballSnapshot()
	snapshot.Participants = append(snapshot.Participants,
		trackerdomain.Participant{ID: 11, GroupID: 1, Name: "Jane", MonthlyContribution: amount(75), Status: trackerdomain.StatusActive},
	)
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-01-05"},
		{ID: 2, ParticipantID: 10, GroupID: 1, Amount: amount(25), Date: "2026-01-25"},
		{ID: 3, ParticipantID: 11, GroupID: 1, Amount: amount(75), Date: "2026-02-01"},
	}

	breakdown, err := engine.MonthBreakdown(snapshot, 1, YearMonth{2026, time.January})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(breakdown.Participants) != 2 {
		t.Fatalf("expected both participants listed, got %d", len(breakdown.Participants))
	}
	john := breakdown.Participants[0]
	if !john.HasContributed || len(john.Contributions) != 2 || !john.TotalAmount.Equal(amount(75)) {
		t.Fatalf("unexpected entry for John: %+v", john)
	}
	jane := breakdown.Participants[1]
	if jane.HasContributed || len(jane.Contributions) != 0 {
		t.Fatalf("expected Jane without January contributions: %+v", jane)
	}
	if breakdown.ContributedParticipants != 1 || breakdown.ContributionCount != 2 {
		t.Fatalf("unexpected totals %+v", breakdown)
	}
	if breakdown.ProgressPercent != 37.5 {
		t.Fatalf("expected 37.5%% progress, got %v", breakdown.ProgressPercent)
	}
	if !breakdown.Navigation.CanPrevious || !breakdown.Navigation.CanNext {
		t.Fatalf("expected navigation both ways from January, got %+v", breakdown.Navigation)
	}
}

func TestMonthOptionsNewestFirst(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	options := engine.MonthOptions(footballSnapshot().Groups[0])

	want := []string{"2026-03", "2026-02", "2026-01", "2025-12", "2025-11"}
	if len(options) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(options))
	}
	for i, month := range options {
		if month.String() != want[i] {
			t.Fatalf("option %d = %s, want %s", i, month, want[i])
		}
	}
}

func TestGroupHistory(t *testing.T) {
	engine := fixedEngine(2026, time.March, 10)
	snapshot := footballSnapshot()
	snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-02-05"},
		{ID: 2, ParticipantID: 10, GroupID: 1, Amount: amount(25), Date: "2026-02-25"},
		{ID: 3, ParticipantID: 11, GroupID: 1, Amount: amount(75), Date: "2026-02-01"},
		{ID: 4, ParticipantID: 10, GroupID: 1, Amount: amount(10), Date: "2025-12-01"},
	}

	history, err := engine.GroupHistory(snapshot, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history.Months) != 2 {
		t.Fatalf("expected two months, got %d", len(history.Months))
	}
	if history.Months[0].Month.String() != "2025-12" {
		t.Fatalf("expected ascending months, got %s first", history.Months[0].Month)
	}
	feb := history.Months[1]
	if feb.Count != 3 || feb.UniqueParticipants != 2 || !feb.Total.Equal(amount(150)) {
		t.Fatalf("unexpected February row %+v", feb)
	}
}

func TestYearMonthArithmetic(t *testing.T) {
	start := YearMonth{2026, time.January}
	if got := start.AddMonths(-1).String(); got != "2025-12" {
		t.Fatalf("expected 2025-12, got %s", got)
	}
	if got := start.AddMonths(-13).String(); got != "2024-12" {
		t.Fatalf("expected 2024-12, got %s", got)
	}
	if got := start.AddMonths(14).String(); got != "2027-03" {
		t.Fatalf("expected 2027-03, got %s", got)
	}
	parsed, err := ParseYearMonth("2025-07")
	if err != nil || parsed != (YearMonth{2025, time.July}) {
		t.Fatalf("unexpected parse result %v %v", parsed, err)
	}
	if _, err := ParseYearMonth("07/2025"); err == nil {
		t.Fatalf("expected parse error")
	}
}
