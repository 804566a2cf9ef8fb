package transfer

import (
	"errors"
	"strings"
	"testing"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
)

func TestDecodeDocumentRejectsBadShape(t *testing.T) {
	cases := map[string]string{
		"malformed":            `{"groups": [`,
		"missing groups":       `{"participants": [], "contributions": []}`,
		"missing participants": `{"groups": [], "contributions": []}`,
		"contributions object": `{"groups": [], "participants": [], "contributions": {}}`,
		"null groups":          `{"groups": null, "participants": [], "contributions": []}`,
		"not an object":        `[]`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDocument(strings.NewReader(input))
			if !errors.Is(err, trackerdomain.ErrInvalidFormat) {
				t.Fatalf("expected invalid format, got %v", err)
			}
		})
	}
}

func TestDecodeDocumentAcceptsLegacyRecords(t *testing.T) {
	input := `{
		"groups": [{"id": 4, "name": "Legacy", "description": null, "monthly_amount": 100, "currency": null, "created_at": "2025-02-03 10:11:12", "is_active": 0}],
		"participants": [{"id": 7, "group_id": 4, "name": "Ann", "email": null, "phone": null, "monthly_contribution": "25.50", "joined_date": "2025-02-03T00:00:00.000Z", "status": "pending"}],
		"contributions": [{"id": 9, "participant_id": 7, "group_id": 4, "amount": 25.5, "note": null, "date": "2025-02-10", "created_at": null}],
		"exportDate": "2025-03-01T00:00:00.000Z",
		"version": "1.0.0"
	}`

	doc, err := DecodeDocumentIn(strings.NewReader(input), time.UTC)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	group := doc.Groups[0]
	if group.IsActive {
		t.Fatalf("expected is_active 0 to decode as false")
	}
	if group.Currency != trackerdomain.DefaultCurrency || group.Description != "" {
		t.Fatalf("unexpected defaults: %+v", group)
	}
	if !group.CreatedAt.Equal(time.Date(2025, 2, 3, 10, 11, 12, 0, time.UTC)) {
		t.Fatalf("unexpected created_at %v", group.CreatedAt)
	}

	participant := doc.Participants[0]
	if participant.JoinedDate != "2025-02-03" || participant.Status != trackerdomain.StatusPending {
		t.Fatalf("unexpected participant %+v", participant)
	}
	if participant.MonthlyContribution.String() != "25.5" {
		t.Fatalf("unexpected pledge %s", participant.MonthlyContribution)
	}

	contribution := doc.Contributions[0]
	if !contribution.CreatedAt.IsZero() || contribution.Note != "" {
		t.Fatalf("unexpected contribution %+v", contribution)
	}
	if doc.Version != "1.0.0" {
		t.Fatalf("unexpected version %q", doc.Version)
	}
}

func TestDecodeDocumentReadsNaiveTimestampsInZone(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*60*60)
	input := `{
		"groups": [
			{"id": 1, "name": "Naive", "created_at": "2025-01-01 00:00:00"},
			{"id": 2, "name": "Offset", "created_at": "2025-01-01T00:00:00.000Z"}
		],
		"participants": [],
		"contributions": [{"id": 3, "participant_id": 1, "group_id": 1, "amount": 1, "date": "2025-01-15", "created_at": "2025-01-15T08:30:00"}]
	}`

	doc, err := DecodeDocumentIn(strings.NewReader(input), west)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if want := time.Date(2025, time.January, 1, 0, 0, 0, 0, west); !doc.Groups[0].CreatedAt.Equal(want) {
		t.Fatalf("naive created_at = %v, want %v", doc.Groups[0].CreatedAt, want)
	}
	if got := doc.Groups[0].CreatedAt.In(west); got.Year() != 2025 || got.Month() != time.January {
		t.Fatalf("naive created_at moved to %v", got)
	}
	if want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC); !doc.Groups[1].CreatedAt.Equal(want) {
		t.Fatalf("offset created_at = %v, want %v", doc.Groups[1].CreatedAt, want)
	}
	if want := time.Date(2025, time.January, 15, 8, 30, 0, 0, west); !doc.Contributions[0].CreatedAt.Equal(want) {
		t.Fatalf("contribution created_at = %v, want %v", doc.Contributions[0].CreatedAt, want)
	}
}

func TestDecodeDocumentRejectsBadTimestamp(t *testing.T) {
	input := `{"groups":[{"id":1,"name":"G","created_at":"yesterday"}],"participants":[],"contributions":[]}`
	_, err := DecodeDocument(strings.NewReader(input))
	if !errors.Is(err, trackerdomain.ErrInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
	if !strings.Contains(err.Error(), "groups[0]") {
		t.Fatalf("expected the record index in %q", err)
	}
}

func TestDecodeDocumentMissingIsActiveDefaultsTrue(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{"groups":[{"id":1,"name":"G"}],"participants":[],"contributions":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !doc.Groups[0].IsActive {
		t.Fatalf("expected missing is_active to default to true")
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2025, time.March, 9, 15, 0, 0, 0, time.UTC))
	if got != "contribution-tracker-export-2025-03-09.json" {
		t.Fatalf("unexpected file name %q", got)
	}
}
