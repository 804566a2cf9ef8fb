package transfer

import (
	"context"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"github.com/shopspring/decimal"
)

type seedGroup struct {
	name          string
	description   string
	monthlyAmount int64
}

type seedParticipant struct {
	name    string
	email   string
	phone   string
	monthly int64
}

var (
	seedJoined = "2025-01-01"
	seedDates  = []string{"2025-01-15", "2025-02-15", "2025-03-15"}
	seedNote   = "Monthly contribution"

	seedGroups = []seedGroup{
		{"August Blood Donation Camp", "Monthly blood donation drive with volunteer coordination", 500},
		{"Football Club 2025", "Monthly participation fees for club activities and equipment", 200},
		{"Charity Drive for Flood Relief", "Fundraising campaign for disaster relief efforts", 1000},
	}

	seedParticipants = []seedParticipant{
		{"John Doe", "john@example.com", "+1-555-0101", 50},
		{"Jane Smith", "jane@example.com", "+1-555-0102", 75},
		{"Mike Johnson", "mike@example.com", "+1-555-0103", 60},
		{"Sarah Wilson", "sarah@example.com", "+1-555-0104", 80},
	}
)

// seed writes the sample data set: every group gets every participant and
// every participant pays its pledge on each seed date. Timestamps are
// wall-clock midnights in loc.
func seed(ctx context.Context, tx trackerdomain.Repository, loc *time.Location) error {
	createdAt := time.Date(2025, time.January, 1, 0, 0, 0, 0, loc)
	for _, sg := range seedGroups {
		group := trackerdomain.Group{
			Name:          sg.name,
			Description:   sg.description,
			MonthlyAmount: decimal.NewFromInt(sg.monthlyAmount),
			Currency:      trackerdomain.DefaultCurrency,
			CreatedAt:     createdAt,
			IsActive:      true,
		}
		if err := tx.CreateGroup(ctx, &group); err != nil {
			return err
		}

		for _, sp := range seedParticipants {
			participant := trackerdomain.Participant{
				GroupID:             group.ID,
				Name:                sp.name,
				Email:               sp.email,
				Phone:               sp.phone,
				MonthlyContribution: decimal.NewFromInt(sp.monthly),
				JoinedDate:          seedJoined,
				Status:              trackerdomain.StatusActive,
			}
			if err := tx.CreateParticipant(ctx, &participant); err != nil {
				return err
			}

			for _, date := range seedDates {
				paidAt, _ := time.ParseInLocation(trackerdomain.DateLayout, date, loc)
				contribution := trackerdomain.Contribution{
					ParticipantID: participant.ID,
					GroupID:       group.ID,
					Amount:        participant.MonthlyContribution,
					Note:          seedNote,
					Date:          date,
					CreatedAt:     paidAt,
				}
				if err := tx.CreateContribution(ctx, &contribution); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
