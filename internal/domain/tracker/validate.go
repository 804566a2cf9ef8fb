package tracker

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "USD"
	maxNameLength   = 200
	amountScale     = 2
)

// amountLimit is the first value that no longer fits NUMERIC(14, 2).
var amountLimit = decimal.New(1, 12)

// NormalizeDate checks a YYYY-MM-DD calendar date and returns it trimmed.
func NormalizeDate(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "is required")
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return "", invalid(field, "must be a YYYY-MM-DD date")
	}
	return value, nil
}

func NormalizeCurrency(value string) (string, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return DefaultCurrency, nil
	}
	if len(value) < 2 || len(value) > 5 {
		return "", invalid("currency", "must be 2-5 letters")
	}
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return "", invalid("currency", "must be 2-5 letters")
		}
	}
	return value, nil
}

func normalizeName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "is required")
	}
	if len(value) > maxNameLength {
		return "", invalid(field, "is too long")
	}
	return value, nil
}

func normalizeEmail(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" && !strings.Contains(value, "@") {
		return "", invalid("email", "must be an email address")
	}
	return value, nil
}

func checkNonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return checkAmount(field, value)
}

func checkPositive(field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	return checkAmount(field, value)
}

func checkAmount(field string, value decimal.Decimal) error {
	if !value.Equal(value.Round(amountScale)) {
		return invalid(field, "must have at most 2 decimal places")
	}
	if value.Abs().GreaterThanOrEqual(amountLimit) {
		return invalid(field, "must be less than 1000000000000")
	}
	return nil
}

func checkStatus(status Status) error {
	if !status.Valid() {
		return invalid("status", "must be one of active, pending, inactive")
	}
	return nil
}

func checkID(field string, id int64) error {
	if id <= 0 {
		return invalid(field, "must be a positive id")
	}
	return nil
}

// ValidateGroup checks a fully populated record, as used by import.
func ValidateGroup(group Group) error {
	if err := checkID("id", group.ID); err != nil {
		return err
	}
	if _, err := normalizeName("name", group.Name); err != nil {
		return err
	}
	if _, err := NormalizeCurrency(group.Currency); err != nil {
		return err
	}
	return checkNonNegative("monthly_amount", group.MonthlyAmount)
}

func ValidateParticipant(participant Participant) error {
	if err := checkID("id", participant.ID); err != nil {
		return err
	}
	if err := checkID("group_id", participant.GroupID); err != nil {
		return err
	}
	if _, err := normalizeName("name", participant.Name); err != nil {
		return err
	}
	if err := checkNonNegative("monthly_contribution", participant.MonthlyContribution); err != nil {
		return err
	}
	if _, err := NormalizeDate("joined_date", participant.JoinedDate); err != nil {
		return err
	}
	return checkStatus(participant.Status)
}

func ValidateContribution(contribution Contribution) error {
	if err := checkID("id", contribution.ID); err != nil {
		return err
	}
	if err := checkID("participant_id", contribution.ParticipantID); err != nil {
		return err
	}
	if err := checkID("group_id", contribution.GroupID); err != nil {
		return err
	}
	if err := checkPositive("amount", contribution.Amount); err != nil {
		return err
	}
	_, err := NormalizeDate("date", contribution.Date)
	return err
}

func trimmed(value string) string {
	return strings.TrimSpace(value)
}
