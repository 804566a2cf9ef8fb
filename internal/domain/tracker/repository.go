package tracker

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	EnsureSchema(ctx context.Context) error

	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, id int64) (*Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	InsertGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, id int64, patch GroupPatch) error
	DeleteGroup(ctx context.Context, id int64) (bool, error)

	ListParticipants(ctx context.Context, filter ParticipantFilter) ([]Participant, error)
	GetParticipant(ctx context.Context, id int64) (*Participant, error)
	CreateParticipant(ctx context.Context, participant *Participant) error
	InsertParticipant(ctx context.Context, participant *Participant) error
	UpdateParticipant(ctx context.Context, id int64, patch ParticipantPatch) error
	DeleteParticipant(ctx context.Context, id int64) (bool, error)
	ReparentContributions(ctx context.Context, participantID, groupID int64) (int64, error)

	ListContributions(ctx context.Context, filter ContributionFilter) ([]Contribution, error)
	GetContribution(ctx context.Context, id int64) (*Contribution, error)
	CreateContribution(ctx context.Context, contribution *Contribution) error
	InsertContribution(ctx context.Context, contribution *Contribution) error
	UpdateContribution(ctx context.Context, id int64, changes ContributionChanges) error
	DeleteContribution(ctx context.Context, id int64) (bool, error)

	CountGroups(ctx context.Context) (int64, error)
	ClearAll(ctx context.Context) error
	SyncSequences(ctx context.Context) error
}
