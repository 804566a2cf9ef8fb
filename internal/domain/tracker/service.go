package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo     Repository
	cache    SnapshotCache
	cacheTTL time.Duration
	now      func() time.Time
	loc      *time.Location

	// mu serializes writers; snapshot loads hold it shared so a load never
	// straddles a commit.
	mu sync.RWMutex
}

func NewService(repo Repository) *Service {
	return NewServiceWithCache(repo, nil, 0)
}

func NewServiceWithCache(repo Repository, cache SnapshotCache, ttl time.Duration) *Service {
	if cache == nil || ttl <= 0 {
		cache = noopCache{}
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		now:      time.Now,
		loc:      time.Local,
	}
}

// InLocation sets the zone used for default dates.
func (s *Service) InLocation(loc *time.Location) *Service {
	if loc != nil {
		s.loc = loc
	}
	return s
}

// Exclusive runs fn with the write lock held and drops cached snapshots
// afterwards. fn receives the root repository and opens its own
// transactions.
func (s *Service) Exclusive(ctx context.Context, fn func(Repository) error) error {
	if s.repo == nil {
		return ErrStorageUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.cache.Clear()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.repo)
}

func (s *Service) write(ctx context.Context, fn func(Repository) error) error {
	return s.Exclusive(ctx, func(repo Repository) error {
		return repo.Transaction(ctx, fn)
	})
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	if snapshot, ok := s.cache.Get(); ok {
		return snapshot, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshot Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		groups, err := s.repo.ListGroups(gctx)
		snapshot.Groups = groups
		return err
	})
	g.Go(func() error {
		participants, err := s.repo.ListParticipants(gctx, ParticipantFilter{})
		snapshot.Participants = participants
		return err
	})
	g.Go(func() error {
		contributions, err := s.repo.ListContributions(gctx, ContributionFilter{})
		snapshot.Contributions = contributions
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.Set(&snapshot, s.cacheTTL)
	return &snapshot, nil
}

func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.ListGroups(ctx)
}

func (s *Service) GetGroup(ctx context.Context, id int64) (*Group, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) CreateGroup(ctx context.Context, input CreateGroupInput) (*Group, error) {
	name, err := normalizeName("name", input.Name)
	if err != nil {
		return nil, err
	}
	currency, err := NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}
	if err := checkNonNegative("monthly_amount", input.MonthlyAmount); err != nil {
		return nil, err
	}

	group := Group{
		Name:          name,
		Description:   trimmed(input.Description),
		MonthlyAmount: input.MonthlyAmount,
		Currency:      currency,
		CreatedAt:     s.now().UTC(),
		IsActive:      true,
	}
	if input.IsActive != nil {
		group.IsActive = *input.IsActive
	}

	err = s.write(ctx, func(tx Repository) error {
		return tx.CreateGroup(ctx, &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Service) UpdateGroup(ctx context.Context, id int64, patch GroupPatch) (*Group, error) {
	if patch.Name != nil {
		name, err := normalizeName("name", *patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Description != nil {
		description := trimmed(*patch.Description)
		patch.Description = &description
	}
	if patch.Currency != nil {
		currency, err := NormalizeCurrency(*patch.Currency)
		if err != nil {
			return nil, err
		}
		patch.Currency = &currency
	}
	if patch.MonthlyAmount != nil {
		if err := checkNonNegative("monthly_amount", *patch.MonthlyAmount); err != nil {
			return nil, err
		}
	}

	var updated *Group
	err := s.write(ctx, func(tx Repository) error {
		if err := tx.UpdateGroup(ctx, id, patch); err != nil {
			return err
		}
		group, err := tx.GetGroup(ctx, id)
		if err != nil {
			return err
		}
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteGroup(ctx context.Context, id int64) error {
	return s.write(ctx, func(tx Repository) error {
		_, err := tx.DeleteGroup(ctx, id)
		return err
	})
}

func (s *Service) ListParticipants(ctx context.Context, filter ParticipantFilter) ([]Participant, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.ListParticipants(ctx, filter)
}

func (s *Service) GetParticipant(ctx context.Context, id int64) (*Participant, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.GetParticipant(ctx, id)
}

func (s *Service) CreateParticipant(ctx context.Context, input CreateParticipantInput) (*Participant, error) {
	if err := checkID("group_id", input.GroupID); err != nil {
		return nil, err
	}
	name, err := normalizeName("name", input.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := checkNonNegative("monthly_contribution", input.MonthlyContribution); err != nil {
		return nil, err
	}
	joined := s.today()
	if trimmed(input.JoinedDate) != "" {
		joined, err = NormalizeDate("joined_date", input.JoinedDate)
		if err != nil {
			return nil, err
		}
	}
	status := input.Status
	if status == "" {
		status = StatusActive
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}

	participant := Participant{
		GroupID:             input.GroupID,
		Name:                name,
		Email:               email,
		Phone:               trimmed(input.Phone),
		MonthlyContribution: input.MonthlyContribution,
		JoinedDate:          joined,
		Status:              status,
	}

	err = s.write(ctx, func(tx Repository) error {
		if err := requireGroup(ctx, tx, participant.GroupID); err != nil {
			return err
		}
		return tx.CreateParticipant(ctx, &participant)
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// UpdateParticipant applies patch; moving the participant to another group
// re-parents its contributions in the same transaction.
func (s *Service) UpdateParticipant(ctx context.Context, id int64, patch ParticipantPatch) (*Participant, error) {
	if patch.GroupID != nil {
		if err := checkID("group_id", *patch.GroupID); err != nil {
			return nil, err
		}
	}
	if patch.Name != nil {
		name, err := normalizeName("name", *patch.Name)
		if err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if patch.Phone != nil {
		phone := trimmed(*patch.Phone)
		patch.Phone = &phone
	}
	if patch.MonthlyContribution != nil {
		if err := checkNonNegative("monthly_contribution", *patch.MonthlyContribution); err != nil {
			return nil, err
		}
	}
	if patch.JoinedDate != nil {
		joined, err := NormalizeDate("joined_date", *patch.JoinedDate)
		if err != nil {
			return nil, err
		}
		patch.JoinedDate = &joined
	}
	if patch.Status != nil {
		if err := checkStatus(*patch.Status); err != nil {
			return nil, err
		}
	}

	var updated *Participant
	err := s.write(ctx, func(tx Repository) error {
		current, err := tx.GetParticipant(ctx, id)
		if err != nil {
			return err
		}

		moved := patch.GroupID != nil && *patch.GroupID != current.GroupID
		if patch.GroupID != nil && !moved {
			patch.GroupID = nil
		}
		if moved {
			if err := requireGroup(ctx, tx, *patch.GroupID); err != nil {
				return err
			}
		}

		if err := tx.UpdateParticipant(ctx, id, patch); err != nil {
			return err
		}
		if moved {
			if _, err := tx.ReparentContributions(ctx, id, *patch.GroupID); err != nil {
				return err
			}
		}

		participant, err := tx.GetParticipant(ctx, id)
		if err != nil {
			return err
		}
		updated = participant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteParticipant(ctx context.Context, id int64) error {
	return s.write(ctx, func(tx Repository) error {
		_, err := tx.DeleteParticipant(ctx, id)
		return err
	})
}

func (s *Service) ListContributions(ctx context.Context, filter ContributionFilter) ([]Contribution, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.ListContributions(ctx, filter)
}

func (s *Service) GetContribution(ctx context.Context, id int64) (*Contribution, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.GetContribution(ctx, id)
}

func (s *Service) CreateContribution(ctx context.Context, input CreateContributionInput) (*Contribution, error) {
	if err := checkID("participant_id", input.ParticipantID); err != nil {
		return nil, err
	}
	if err := checkPositive("amount", input.Amount); err != nil {
		return nil, err
	}
	date := s.today()
	if trimmed(input.Date) != "" {
		var err error
		date, err = NormalizeDate("date", input.Date)
		if err != nil {
			return nil, err
		}
	}

	contribution := Contribution{
		ParticipantID: input.ParticipantID,
		Amount:        input.Amount,
		Note:          trimmed(input.Note),
		Date:          date,
		CreatedAt:     s.now().UTC(),
	}

	err := s.write(ctx, func(tx Repository) error {
		participant, err := owningParticipant(ctx, tx, contribution.ParticipantID)
		if err != nil {
			return err
		}
		contribution.GroupID = participant.GroupID
		return tx.CreateContribution(ctx, &contribution)
	})
	if err != nil {
		return nil, err
	}
	return &contribution, nil
}

func (s *Service) UpdateContribution(ctx context.Context, id int64, patch ContributionPatch) (*Contribution, error) {
	changes := ContributionChanges{
		ParticipantID: patch.ParticipantID,
		Amount:        patch.Amount,
	}
	if patch.ParticipantID != nil {
		if err := checkID("participant_id", *patch.ParticipantID); err != nil {
			return nil, err
		}
	}
	if patch.Amount != nil {
		if err := checkPositive("amount", *patch.Amount); err != nil {
			return nil, err
		}
	}
	if patch.Note != nil {
		note := trimmed(*patch.Note)
		changes.Note = &note
	}
	if patch.Date != nil {
		date, err := NormalizeDate("date", *patch.Date)
		if err != nil {
			return nil, err
		}
		changes.Date = &date
	}

	var updated *Contribution
	err := s.write(ctx, func(tx Repository) error {
		current, err := tx.GetContribution(ctx, id)
		if err != nil {
			return err
		}
		if changes.ParticipantID != nil && *changes.ParticipantID != current.ParticipantID {
			participant, err := owningParticipant(ctx, tx, *changes.ParticipantID)
			if err != nil {
				return err
			}
			changes.GroupID = &participant.GroupID
		} else {
			changes.ParticipantID = nil
		}

		if err := tx.UpdateContribution(ctx, id, changes); err != nil {
			return err
		}
		contribution, err := tx.GetContribution(ctx, id)
		if err != nil {
			return err
		}
		updated = contribution
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteContribution(ctx context.Context, id int64) error {
	return s.write(ctx, func(tx Repository) error {
		_, err := tx.DeleteContribution(ctx, id)
		return err
	})
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

func requireGroup(ctx context.Context, tx Repository, id int64) error {
	if _, err := tx.GetGroup(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return missingParent("group", id)
		}
		return err
	}
	return nil
}

func owningParticipant(ctx context.Context, tx Repository, id int64) (*Participant, error) {
	participant, err := tx.GetParticipant(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, missingParent("participant", id)
		}
		return nil, err
	}
	return participant, nil
}
