package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	trackerdomain "contribution-tracker-go/internal/domain/tracker"
	"github.com/shopspring/decimal"
)

const (
	DocumentVersion  = "1.0.0"
	exportDateLayout = "2006-01-02T15:04:05.000Z07:00"
	maxDocumentBytes = 32 << 20
)

type Document struct {
	Groups        []trackerdomain.Group        `json:"groups"`
	Participants  []trackerdomain.Participant  `json:"participants"`
	Contributions []trackerdomain.Contribution `json:"contributions"`
	ExportDate    string                       `json:"exportDate"`
	Version       string                       `json:"version"`
}

// FileName is the suggested name for an export written at t.
func FileName(t time.Time) string {
	return "contribution-tracker-export-" + t.Format(trackerdomain.DateLayout) + ".json"
}

func EncodeDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// DecodeDocument parses an export document, reading timestamps without an
// offset as local time.
func DecodeDocument(r io.Reader) (*Document, error) {
	return DecodeDocumentIn(r, time.Local)
}

// DecodeDocumentIn parses an export document. Each of the three collections
// must be present as an array; records written by older exports (0/1
// booleans, null strings, SQL timestamps) are accepted. Timestamps without
// an offset are wall-clock times in loc.
func DecodeDocumentIn(r io.Reader, loc *time.Location) (*Document, error) {
	if loc == nil {
		loc = time.Local
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %w", trackerdomain.ErrInvalidFormat, err)
	}
	if len(raw) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", trackerdomain.ErrInvalidFormat, maxDocumentBytes)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: malformed json: %v", trackerdomain.ErrInvalidFormat, err)
	}
	for _, key := range []string{"groups", "participants", "contributions"} {
		value, ok := top[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", trackerdomain.ErrInvalidFormat, key)
		}
		if trimmed := bytes.TrimSpace(value); len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, fmt.Errorf("%w: %q must be an array", trackerdomain.ErrInvalidFormat, key)
		}
	}

	var groups []groupRecord
	if err := json.Unmarshal(top["groups"], &groups); err != nil {
		return nil, fmt.Errorf("%w: groups: %v", trackerdomain.ErrInvalidFormat, err)
	}
	var participants []participantRecord
	if err := json.Unmarshal(top["participants"], &participants); err != nil {
		return nil, fmt.Errorf("%w: participants: %v", trackerdomain.ErrInvalidFormat, err)
	}
	var contributions []contributionRecord
	if err := json.Unmarshal(top["contributions"], &contributions); err != nil {
		return nil, fmt.Errorf("%w: contributions: %v", trackerdomain.ErrInvalidFormat, err)
	}

	doc := &Document{
		Groups:        make([]trackerdomain.Group, 0, len(groups)),
		Participants:  make([]trackerdomain.Participant, 0, len(participants)),
		Contributions: make([]trackerdomain.Contribution, 0, len(contributions)),
	}
	if value, ok := top["exportDate"]; ok {
		_ = json.Unmarshal(value, &doc.ExportDate)
	}
	if value, ok := top["version"]; ok {
		_ = json.Unmarshal(value, &doc.Version)
	}

	for i, record := range groups {
		group, err := record.toGroup(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: groups[%d]: %v", trackerdomain.ErrInvalidFormat, i, err)
		}
		doc.Groups = append(doc.Groups, group)
	}
	for _, record := range participants {
		doc.Participants = append(doc.Participants, record.toParticipant())
	}
	for i, record := range contributions {
		contribution, err := record.toContribution(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: contributions[%d]: %v", trackerdomain.ErrInvalidFormat, i, err)
		}
		doc.Contributions = append(doc.Contributions, contribution)
	}
	return doc, nil
}

type groupRecord struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	Currency      *string         `json:"currency"`
	CreatedAt     timestamp       `json:"created_at"`
	IsActive      *flexBool       `json:"is_active"`
}

func (r groupRecord) toGroup(loc *time.Location) (trackerdomain.Group, error) {
	createdAt, err := r.CreatedAt.parse(loc)
	if err != nil {
		return trackerdomain.Group{}, err
	}
	group := trackerdomain.Group{
		ID:            r.ID,
		Name:          r.Name,
		Description:   stringOr(r.Description, ""),
		MonthlyAmount: r.MonthlyAmount,
		Currency:      stringOr(r.Currency, trackerdomain.DefaultCurrency),
		CreatedAt:     createdAt,
		IsActive:      true,
	}
	if r.IsActive != nil {
		group.IsActive = bool(*r.IsActive)
	}
	return group, nil
}

type participantRecord struct {
	ID                  int64           `json:"id"`
	GroupID             int64           `json:"group_id"`
	Name                string          `json:"name"`
	Email               *string         `json:"email"`
	Phone               *string         `json:"phone"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	JoinedDate          *string         `json:"joined_date"`
	Status              *string         `json:"status"`
}

func (r participantRecord) toParticipant() trackerdomain.Participant {
	return trackerdomain.Participant{
		ID:                  r.ID,
		GroupID:             r.GroupID,
		Name:                r.Name,
		Email:               stringOr(r.Email, ""),
		Phone:               stringOr(r.Phone, ""),
		MonthlyContribution: r.MonthlyContribution,
		JoinedDate:          datePart(stringOr(r.JoinedDate, "")),
		Status:              trackerdomain.Status(stringOr(r.Status, string(trackerdomain.StatusActive))),
	}
}

type contributionRecord struct {
	ID            int64           `json:"id"`
	ParticipantID int64           `json:"participant_id"`
	GroupID       int64           `json:"group_id"`
	Amount        decimal.Decimal `json:"amount"`
	Note          *string         `json:"note"`
	Date          string          `json:"date"`
	CreatedAt     timestamp       `json:"created_at"`
}

func (r contributionRecord) toContribution(loc *time.Location) (trackerdomain.Contribution, error) {
	createdAt, err := r.CreatedAt.parse(loc)
	if err != nil {
		return trackerdomain.Contribution{}, err
	}
	return trackerdomain.Contribution{
		ID:            r.ID,
		ParticipantID: r.ParticipantID,
		GroupID:       r.GroupID,
		Amount:        r.Amount,
		Note:          stringOr(r.Note, ""),
		Date:          datePart(r.Date),
		CreatedAt:     createdAt,
	}, nil
}

// flexBool accepts true/false as well as the 0/1 integers SQLite exports use.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	value := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if value == "null" || value == "" {
		*b = false
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean %s", data)
	}
	*b = flexBool(parsed)
	return nil
}

// localLayouts carry no offset and are read as wall-clock times.
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// timestamp holds a created_at value as written; null and "" mean unset.
type timestamp string

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	*t = timestamp(strings.TrimSpace(value))
	return nil
}

func (t timestamp) parse(loc *time.Location) (time.Time, error) {
	value := string(t)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q", value)
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// datePart keeps the calendar date of values such as "2025-01-15T00:00:00Z".
func datePart(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > len(trackerdomain.DateLayout) && value[len(trackerdomain.DateLayout)] == 'T' {
		return value[:len(trackerdomain.DateLayout)]
	}
	return value
}
