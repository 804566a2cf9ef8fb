package analytics

import (
	"context"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
)

// SnapshotSource yields the latest committed collections.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*trackerdomain.Snapshot, error)
}

type Service struct {
	source      SnapshotSource
	engine      *Engine
	trendMonths int
}

func NewService(source SnapshotSource, loc *time.Location, trendMonths int) *Service {
	return NewServiceWithEngine(source, NewEngine(time.Now, loc), trendMonths)
}

func NewServiceWithEngine(source SnapshotSource, engine *Engine, trendMonths int) *Service {
	if trendMonths <= 0 {
		trendMonths = DefaultTrendMonths
	}
	return &Service{
		source:      source,
		engine:      engine,
		trendMonths: trendMonths,
	}
}

func (s *Service) Engine() *Engine {
	return s.engine
}

func (s *Service) GroupStats(ctx context.Context, groupID int64) (GroupStats, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return GroupStats{}, err
	}
	return s.engine.GroupStats(*snapshot, groupID)
}

// AllGroupStats returns stats for every group in list order.
func (s *Service) AllGroupStats(ctx context.Context) ([]GroupStats, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]GroupStats, 0, len(snapshot.Groups))
	for _, group := range snapshot.Groups {
		stats, err := s.engine.GroupStats(*snapshot, group.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, stats)
	}
	return result, nil
}

func (s *Service) Pending(ctx context.Context, scope Scope) (PendingReport, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return PendingReport{}, err
	}
	if scope.GroupID != nil {
		if _, ok := findGroup(*snapshot, *scope.GroupID); !ok {
			return PendingReport{}, trackerdomain.ErrGroupNotFound
		}
	}
	return s.engine.Pending(*snapshot, scope), nil
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return s.engine.Dashboard(*snapshot), nil
}

func (s *Service) Trend(ctx context.Context, scope Scope) (Trend, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return Trend{}, err
	}
	if scope.GroupID != nil {
		if _, ok := findGroup(*snapshot, *scope.GroupID); !ok {
			return Trend{}, trackerdomain.ErrGroupNotFound
		}
	}
	return s.engine.Trend(*snapshot, scope, s.trendMonths), nil
}

// MonthBreakdown defaults to the current month when month is nil.
func (s *Service) MonthBreakdown(ctx context.Context, groupID int64, month *YearMonth) (MonthBreakdown, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return MonthBreakdown{}, err
	}
	selected := s.engine.CurrentMonth()
	if month != nil {
		selected = *month
	}
	return s.engine.MonthBreakdown(*snapshot, groupID, selected)
}

func (s *Service) History(ctx context.Context, groupID int64) (History, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return History{}, err
	}
	return s.engine.GroupHistory(*snapshot, groupID)
}

func (s *Service) MonthOptions(ctx context.Context, groupID int64) ([]YearMonth, error) {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	group, ok := findGroup(*snapshot, groupID)
	if !ok {
		return nil, trackerdomain.ErrGroupNotFound
	}
	return s.engine.MonthOptions(group), nil
}
