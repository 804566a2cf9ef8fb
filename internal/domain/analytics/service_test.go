package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
)

type fakeSnapshotSource struct {
	snapshot trackerdomain.Snapshot
	err      error
	calls    int
}

func (f *fakeSnapshotSource) Snapshot(ctx context.Context) (*trackerdomain.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	snapshot := f.snapshot
	return &snapshot, nil
}

func TestServiceReadsFreshSnapshotPerCall(t *testing.T) {
	source := &fakeSnapshotSource{snapshot: footballSnapshot()}
	svc := NewServiceWithEngine(source, fixedEngine(2026, time.March, 10), 0)
	ctx := context.Background()

	if _, err := svc.GroupStats(ctx, 1); err != nil {
		t.Fatalf("stats: %v", err)
	}
	source.snapshot.Contributions = []trackerdomain.Contribution{
		{ID: 1, ParticipantID: 10, GroupID: 1, Amount: amount(50), Date: "2026-03-01"},
	}
	stats, err := svc.GroupStats(ctx, 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !stats.TotalCollectedThisMonth.Equal(amount(50)) {
		t.Fatalf("expected new contribution to be visible, got %s", stats.TotalCollectedThisMonth)
	}
	if source.calls != 2 {
		t.Fatalf("expected two snapshot reads, got %d", source.calls)
	}
}

func TestServiceTrendDefaultsToSixMonths(t *testing.T) {
	svc := NewServiceWithEngine(&fakeSnapshotSource{snapshot: footballSnapshot()}, fixedEngine(2026, time.March, 10), 0)

	trend, err := svc.Trend(context.Background(), Scope{})
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(trend.Points) != DefaultTrendMonths {
		t.Fatalf("expected %d points, got %d", DefaultTrendMonths, len(trend.Points))
	}
}

func TestServiceUnknownGroup(t *testing.T) {
	svc := NewServiceWithEngine(&fakeSnapshotSource{snapshot: footballSnapshot()}, fixedEngine(2026, time.March, 10), 6)
	ctx := context.Background()

	if _, err := svc.Pending(ctx, GroupScope(7)); !errors.Is(err, trackerdomain.ErrGroupNotFound) {
		t.Fatalf("expected group not found, got %v", err)
	}
	if _, err := svc.Trend(ctx, GroupScope(7)); !errors.Is(err, trackerdomain.ErrGroupNotFound) {
		t.Fatalf("expected group not found, got %v", err)
	}
	if _, err := svc.MonthOptions(ctx, 7); !errors.Is(err, trackerdomain.ErrGroupNotFound) {
		t.Fatalf("expected group not found, got %v", err)
	}
}

func TestServiceBreakdownDefaultsToCurrentMonth(t *testing.T) {
	svc := NewServiceWithEngine(&fakeSnapshotSource{snapshot: footballSnapshot()}, fixedEngine(2026, time.March, 10), 6)

	breakdown, err := svc.MonthBreakdown(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if breakdown.Month.String() != "2026-03" {
		t.Fatalf("expected current month, got %s", breakdown.Month)
	}
	if breakdown.Navigation.CanNext {
		t.Fatalf("expected no navigation past the current month")
	}
}

func TestServicePropagatesSourceErrors(t *testing.T) {
	svc := NewServiceWithEngine(&fakeSnapshotSource{err: trackerdomain.ErrStorageUnavailable}, fixedEngine(2026, time.March, 10), 6)

	if _, err := svc.Dashboard(context.Background()); !errors.Is(err, trackerdomain.ErrStorageUnavailable) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
