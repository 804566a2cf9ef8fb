package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"gorm.io/gorm"
)

// SchemaMigrator creates or upgrades the tracker tables.
type SchemaMigrator interface {
	Up(ctx context.Context) error
}

type GormRepository struct {
	db     *gorm.DB
	schema SchemaMigrator
}

func NewGorm(db *gorm.DB, schema SchemaMigrator) *GormRepository {
	return &GormRepository{db: db, schema: schema}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(trackerdomain.Repository) error) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx, schema: r.schema})
	})
	return mapError(err)
}

func (r *GormRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil || r.schema == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	return mapError(r.schema.Up(ctx))
}

func (r *GormRepository) ListGroups(ctx context.Context) ([]trackerdomain.Group, error) {
	if r.db == nil {
		return nil, trackerdomain.ErrStorageUnavailable
	}
	var items []trackerdomain.Group
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&items).Error; err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *GormRepository) GetGroup(ctx context.Context, id int64) (*trackerdomain.Group, error) {
	if r.db == nil {
		return nil, trackerdomain.ErrStorageUnavailable
	}
	var group trackerdomain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackerdomain.ErrGroupNotFound
		}
		return nil, mapError(err)
	}
	return &group, nil
}

func (r *GormRepository) CreateGroup(ctx context.Context, group *trackerdomain.Group) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	group.ID = 0
	return mapError(r.db.WithContext(ctx).Create(group).Error)
}

func (r *GormRepository) InsertGroup(ctx context.Context, group *trackerdomain.Group) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	if group.ID <= 0 {
		return fmt.Errorf("%w: explicit insert needs an id", trackerdomain.ErrValidation)
	}
	return mapError(r.db.WithContext(ctx).Create(group).Error)
}

func (r *GormRepository) UpdateGroup(ctx context.Context, id int64, patch trackerdomain.GroupPatch) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.MonthlyAmount != nil {
		updates["monthly_amount"] = *patch.MonthlyAmount
	}
	if patch.Currency != nil {
		updates["currency"] = *patch.Currency
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	return r.update(ctx, &trackerdomain.Group{}, id, updates, trackerdomain.ErrGroupNotFound)
}

// DeleteGroup removes the group with its participants and contributions.
func (r *GormRepository) DeleteGroup(ctx context.Context, id int64) (bool, error) {
	if r.db == nil {
		return false, trackerdomain.ErrStorageUnavailable
	}
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&trackerdomain.Contribution{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&trackerdomain.Participant{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&trackerdomain.Group{})
		deleted = result.RowsAffected > 0
		return result.Error
	})
	return deleted, mapError(err)
}

func (r *GormRepository) ListParticipants(ctx context.Context, filter trackerdomain.ParticipantFilter) ([]trackerdomain.Participant, error) {
	if r.db == nil {
		return nil, trackerdomain.ErrStorageUnavailable
	}
	query := r.db.WithContext(ctx).Model(&trackerdomain.Participant{})
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	var items []trackerdomain.Participant
	if err := query.Order("name asc, id asc").Find(&items).Error; err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *GormRepository) GetParticipant(ctx context.Context, id int64) (*trackerdomain.Participant, error) {
	if r.db == nil {
		return nil, trackerdomain.ErrStorageUnavailable
	}
	var participant trackerdomain.Participant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackerdomain.ErrParticipantNotFound
		}
		return nil, mapError(err)
	}
	return &participant, nil
}

func (r *GormRepository) CreateParticipant(ctx context.Context, participant *trackerdomain.Participant) error {
	participant.ID = 0
	return r.insertParticipant(ctx, participant)
}

func (r *GormRepository) InsertParticipant(ctx context.Context, participant *trackerdomain.Participant) error {
	if participant.ID <= 0 {
		return fmt.Errorf("%w: explicit insert needs an id", trackerdomain.ErrValidation)
	}
	return r.insertParticipant(ctx, participant)
}

func (r *GormRepository) insertParticipant(ctx context.Context, participant *trackerdomain.Participant) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	if err := r.requireRow(ctx, &trackerdomain.Group{}, "group", participant.GroupID); err != nil {
		return err
	}
	return mapError(r.db.WithContext(ctx).Create(participant).Error)
}

func (r *GormRepository) UpdateParticipant(ctx context.Context, id int64, patch trackerdomain.ParticipantPatch) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	updates := map[string]interface{}{}
	if patch.GroupID != nil {
		if err := r.requireRow(ctx, &trackerdomain.Group{}, "group", *patch.GroupID); err != nil {
			return err
		}
		updates["group_id"] = *patch.GroupID
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.MonthlyContribution != nil {
		updates["monthly_contribution"] = *patch.MonthlyContribution
	}
	if patch.JoinedDate != nil {
		updates["joined_date"] = *patch.JoinedDate
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	return r.update(ctx, &trackerdomain.Participant{}, id, updates, trackerdomain.ErrParticipantNotFound)
}

func (r *GormRepository) DeleteParticipant(ctx context.Context, id int64) (bool, error) {
	if r.db == nil {
		return false, trackerdomain.ErrStorageUnavailable
	}
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", id).Delete(&trackerdomain.Contribution{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&trackerdomain.Participant{})
		deleted = result.RowsAffected > 0
		return result.Error
	})
	return deleted, mapError(err)
}

func (r *GormRepository) ReparentContributions(ctx context.Context, participantID, groupID int64) (int64, error) {
	if r.db == nil {
		return 0, trackerdomain.ErrStorageUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&trackerdomain.Contribution{}).
		Where("participant_id = ?", participantID).
		Update("group_id", groupID)
	return result.RowsAffected, mapError(result.Error)
}

func (r *GormRepository) ListContributions(ctx context.Context, filter trackerdomain.ContributionFilter) ([]trackerdomain.Contribution, error) {
	if r.db == nil {
		return nil, trackerdomain.ErrStorageUnavailable
	}
	query := r.db.WithContext(ctx).Model(&trackerdomain.Contribution{})
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.ParticipantID != nil {
		query = query.Where("participant_id = ?", *filter.ParticipantID)
	}
	var items []trackerdomain.Contribution
	if err := query.Order("date desc, id desc").Find(&items).Error; err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (r *GormRepository) GetContribution(ctx context.Context, id int64) (*trackerdomain.Contribution, error) {
	if r.db == nil {
		return nil, trackerdomain.ErrStorageUnavailable
	}
	var contribution trackerdomain.Contribution
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contribution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trackerdomain.ErrContributionNotFound
		}
		return nil, mapError(err)
	}
	return &contribution, nil
}

func (r *GormRepository) CreateContribution(ctx context.Context, contribution *trackerdomain.Contribution) error {
	contribution.ID = 0
	return r.insertContribution(ctx, contribution)
}

func (r *GormRepository) InsertContribution(ctx context.Context, contribution *trackerdomain.Contribution) error {
	if contribution.ID <= 0 {
		return fmt.Errorf("%w: explicit insert needs an id", trackerdomain.ErrValidation)
	}
	return r.insertContribution(ctx, contribution)
}

func (r *GormRepository) insertContribution(ctx context.Context, contribution *trackerdomain.Contribution) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	if err := r.requireRow(ctx, &trackerdomain.Participant{}, "participant", contribution.ParticipantID); err != nil {
		return err
	}
	if err := r.requireRow(ctx, &trackerdomain.Group{}, "group", contribution.GroupID); err != nil {
		return err
	}
	return mapError(r.db.WithContext(ctx).Create(contribution).Error)
}

func (r *GormRepository) UpdateContribution(ctx context.Context, id int64, changes trackerdomain.ContributionChanges) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	updates := map[string]interface{}{}
	if changes.ParticipantID != nil {
		if err := r.requireRow(ctx, &trackerdomain.Participant{}, "participant", *changes.ParticipantID); err != nil {
			return err
		}
		updates["participant_id"] = *changes.ParticipantID
	}
	if changes.GroupID != nil {
		if err := r.requireRow(ctx, &trackerdomain.Group{}, "group", *changes.GroupID); err != nil {
			return err
		}
		updates["group_id"] = *changes.GroupID
	}
	if changes.Amount != nil {
		updates["amount"] = *changes.Amount
	}
	if changes.Note != nil {
		updates["note"] = *changes.Note
	}
	if changes.Date != nil {
		updates["date"] = *changes.Date
	}
	return r.update(ctx, &trackerdomain.Contribution{}, id, updates, trackerdomain.ErrContributionNotFound)
}

func (r *GormRepository) DeleteContribution(ctx context.Context, id int64) (bool, error) {
	if r.db == nil {
		return false, trackerdomain.ErrStorageUnavailable
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&trackerdomain.Contribution{})
	return result.RowsAffected > 0, mapError(result.Error)
}

func (r *GormRepository) CountGroups(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, trackerdomain.ErrStorageUnavailable
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&trackerdomain.Group{}).Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// ClearAll empties the three tables children first and restarts their
// identity counters.
func (r *GormRepository) ClearAll(ctx context.Context) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&trackerdomain.Contribution{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&trackerdomain.Participant{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&trackerdomain.Group{}).Error; err != nil {
			return err
		}

		switch tx.Dialector.Name() {
		case "sqlite":
			return tx.Exec("DELETE FROM sqlite_sequence WHERE name IN ?", trackedTables).Error
		case "postgres":
			for _, table := range trackedTables {
				if err := tx.Exec("SELECT setval(pg_get_serial_sequence(?, 'id'), 1, false)", table).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	return mapError(err)
}

// SyncSequences moves identity counters past explicitly inserted ids.
// SQLite AUTOINCREMENT tracks the maximum on its own.
func (r *GormRepository) SyncSequences(ctx context.Context) error {
	if r.db == nil {
		return trackerdomain.ErrStorageUnavailable
	}
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range trackedTables {
		statement := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM %q), 0) + 1, false)`,
			table,
		)
		if err := r.db.WithContext(ctx).Exec(statement, table).Error; err != nil {
			return mapError(err)
		}
	}
	return nil
}

var trackedTables = []string{"groups", "participants", "contributions"}

func (r *GormRepository) update(ctx context.Context, model interface{}, id int64, updates map[string]interface{}, notFound error) error {
	if len(updates) == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return mapError(err)
		}
		if count == 0 {
			return notFound
		}
		return nil
	}

	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func (r *GormRepository) requireRow(ctx context.Context, model interface{}, kind string, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return mapError(err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %d does not exist", trackerdomain.ErrConstraintViolation, kind, id)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", trackerdomain.ErrConstraintViolation, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", trackerdomain.ErrConstraintViolation, err)
	case errors.Is(err, sql.ErrConnDone), strings.Contains(err.Error(), "database is closed"):
		return fmt.Errorf("%w: %v", trackerdomain.ErrStorageUnavailable, err)
	default:
		return err
	}
}
