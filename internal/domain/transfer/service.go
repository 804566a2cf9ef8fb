package transfer

import (
	"context"
	"fmt"
	"io"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"contribution-tracker-go/pkg/logger"
)

// Store is the part of the tracker service the transfer protocol needs.
type Store interface {
	Exclusive(ctx context.Context, fn func(trackerdomain.Repository) error) error
	Snapshot(ctx context.Context) (*trackerdomain.Snapshot, error)
}

type Service struct {
	store Store
	log   logger.Logger
	now   func() time.Time
	loc   *time.Location
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now, loc: time.Local}
}

// InLocation sets the zone for seed timestamps and for imported timestamps
// written without an offset.
func (s *Service) InLocation(loc *time.Location) *Service {
	if loc != nil {
		s.loc = loc
	}
	return s
}

// Decode parses an export document, reading zone-less timestamps in the
// service zone.
func (s *Service) Decode(r io.Reader) (*Document, error) {
	return DecodeDocumentIn(r, s.loc)
}

func (s *Service) Export(ctx context.Context) (*Document, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Groups:        append([]trackerdomain.Group{}, snapshot.Groups...),
		Participants:  append([]trackerdomain.Participant{}, snapshot.Participants...),
		Contributions: append([]trackerdomain.Contribution{}, snapshot.Contributions...),
		ExportDate:    s.now().UTC().Format(exportDateLayout),
		Version:       DocumentVersion,
	}
	s.log.Info("transfer: exported",
		"groups", len(doc.Groups),
		"participants", len(doc.Participants),
		"contributions", len(doc.Contributions),
	)
	return doc, nil
}

// Import replaces the whole data set with doc. Ids are kept as given. The
// document is checked up front and written in one transaction, so a
// failure leaves the previous data untouched.
func (s *Service) Import(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", trackerdomain.ErrInvalidFormat)
	}
	if err := s.prepare(doc); err != nil {
		return err
	}

	err := s.store.Exclusive(ctx, func(repo trackerdomain.Repository) error {
		return repo.Transaction(ctx, func(tx trackerdomain.Repository) error {
			if err := tx.ClearAll(ctx); err != nil {
				return err
			}
			for i := range doc.Groups {
				group := doc.Groups[i]
				if err := tx.InsertGroup(ctx, &group); err != nil {
					return fmt.Errorf("insert group %d: %w", group.ID, err)
				}
			}
			for i := range doc.Participants {
				participant := doc.Participants[i]
				if err := tx.InsertParticipant(ctx, &participant); err != nil {
					return fmt.Errorf("insert participant %d: %w", participant.ID, err)
				}
			}
			for i := range doc.Contributions {
				contribution := doc.Contributions[i]
				if err := tx.InsertContribution(ctx, &contribution); err != nil {
					return fmt.Errorf("insert contribution %d: %w", contribution.ID, err)
				}
			}
			return tx.SyncSequences(ctx)
		})
	})
	if err != nil {
		s.log.BusinessError("transfer: import rolled back", err)
		return err
	}

	s.log.Info("transfer: imported",
		"groups", len(doc.Groups),
		"participants", len(doc.Participants),
		"contributions", len(doc.Contributions),
		"version", doc.Version,
	)
	return nil
}

// Reset wipes all data and restores the sample data set.
func (s *Service) Reset(ctx context.Context) error {
	err := s.store.Exclusive(ctx, func(repo trackerdomain.Repository) error {
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		return repo.Transaction(ctx, func(tx trackerdomain.Repository) error {
			if err := tx.ClearAll(ctx); err != nil {
				return err
			}
			return seed(ctx, tx, s.loc)
		})
	})
	if err != nil {
		return err
	}
	s.log.Info("transfer: reset to sample data")
	return nil
}

// SeedIfEmpty loads the sample data on first run and reports whether it did.
func (s *Service) SeedIfEmpty(ctx context.Context) (bool, error) {
	seeded := false
	err := s.store.Exclusive(ctx, func(repo trackerdomain.Repository) error {
		return repo.Transaction(ctx, func(tx trackerdomain.Repository) error {
			count, err := tx.CountGroups(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			seeded = true
			return seed(ctx, tx, s.loc)
		})
	})
	if err != nil {
		return false, err
	}
	if seeded {
		s.log.Info("transfer: seeded sample data")
	}
	return seeded, nil
}

// prepare validates doc and fills defaults for missing timestamps.
func (s *Service) prepare(doc *Document) error {
	now := s.now().UTC()

	groups := make(map[int64]struct{}, len(doc.Groups))
	for i := range doc.Groups {
		group := &doc.Groups[i]
		if err := trackerdomain.ValidateGroup(*group); err != nil {
			return fmt.Errorf("groups[%d]: %w", i, err)
		}
		if _, dup := groups[group.ID]; dup {
			return fmt.Errorf("%w: duplicate group id %d", trackerdomain.ErrConstraintViolation, group.ID)
		}
		groups[group.ID] = struct{}{}
		group.Currency, _ = trackerdomain.NormalizeCurrency(group.Currency)
		if group.CreatedAt.IsZero() {
			group.CreatedAt = now
		}
	}

	owners := make(map[int64]int64, len(doc.Participants))
	for i, participant := range doc.Participants {
		if err := trackerdomain.ValidateParticipant(participant); err != nil {
			return fmt.Errorf("participants[%d]: %w", i, err)
		}
		if _, dup := owners[participant.ID]; dup {
			return fmt.Errorf("%w: duplicate participant id %d", trackerdomain.ErrConstraintViolation, participant.ID)
		}
		if _, ok := groups[participant.GroupID]; !ok {
			return fmt.Errorf("%w: participant %d references missing group %d", trackerdomain.ErrConstraintViolation, participant.ID, participant.GroupID)
		}
		owners[participant.ID] = participant.GroupID
	}

	seen := make(map[int64]struct{}, len(doc.Contributions))
	for i := range doc.Contributions {
		contribution := &doc.Contributions[i]
		if err := trackerdomain.ValidateContribution(*contribution); err != nil {
			return fmt.Errorf("contributions[%d]: %w", i, err)
		}
		if _, dup := seen[contribution.ID]; dup {
			return fmt.Errorf("%w: duplicate contribution id %d", trackerdomain.ErrConstraintViolation, contribution.ID)
		}
		seen[contribution.ID] = struct{}{}
		groupID, ok := owners[contribution.ParticipantID]
		if !ok {
			return fmt.Errorf("%w: contribution %d references missing participant %d", trackerdomain.ErrConstraintViolation, contribution.ID, contribution.ParticipantID)
		}
		if groupID != contribution.GroupID {
			return fmt.Errorf("%w: contribution %d is in group %d but its participant is in group %d", trackerdomain.ErrConstraintViolation, contribution.ID, contribution.GroupID, groupID)
		}
		if contribution.CreatedAt.IsZero() {
			contribution.CreatedAt = now
		}
	}
	return nil
}
