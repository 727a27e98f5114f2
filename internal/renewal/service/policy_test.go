package service

import (
	"testing"
	"time"

	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		in         PolicyInput
		due        bool
		reasons    []domain.Reason
		targetDate time.Time
	}{
		{
			name:       "first renewal on anchor day",
			in:         PolicyInput{Now: date(2026, time.February, 8), CreatedAt: date(2026, time.January, 8), LineCount: 1},
			due:        true,
			reasons:    []domain.Reason{},
			targetDate: date(2026, time.February, 8),
		},
		{
			name:       "before anchor day",
			in:         PolicyInput{Now: date(2026, time.February, 7), CreatedAt: date(2026, time.January, 8), LineCount: 1},
			reasons:    []domain.Reason{domain.ReasonNotDueYet},
			targetDate: date(2026, time.February, 8),
		},
		{
			name:       "anchor 31 clamps to february 28",
			in:         PolicyInput{Now: date(2026, time.February, 28), CreatedAt: date(2025, time.December, 31), LineCount: 2},
			due:        true,
			reasons:    []domain.Reason{},
			targetDate: date(2026, time.February, 28),
		},
		{
			name:       "anchor 31 clamps to february 29 in leap year",
			in:         PolicyInput{Now: date(2024, time.February, 29), CreatedAt: date(2024, time.January, 31), LineCount: 1},
			due:        true,
			reasons:    []domain.Reason{},
			targetDate: date(2024, time.February, 29),
		},
		{
			name:       "anchor 31 not yet due on february 27",
			in:         PolicyInput{Now: date(2026, time.February, 27), CreatedAt: date(2025, time.December, 31), LineCount: 1},
			reasons:    []domain.Reason{domain.ReasonNotDueYet},
			targetDate: date(2026, time.February, 28),
		},
		{
			name: "already invoiced this month",
			in: PolicyInput{
				Now:           date(2026, time.February, 20),
				CreatedAt:     date(2026, time.January, 8),
				LastIssueDate: ptr(date(2026, time.February, 8)),
				LineCount:     1,
			},
			reasons:    []domain.Reason{domain.ReasonAlreadyInvoiced},
			targetDate: date(2026, time.February, 8),
		},
		{
			name: "latest invoice in a later month",
			in: PolicyInput{
				Now:           date(2026, time.February, 15),
				CreatedAt:     date(2026, time.January, 8),
				LastIssueDate: ptr(date(2026, time.March, 10)),
				LineCount:     1,
			},
			reasons:    []domain.Reason{domain.ReasonAlreadyInvoiced},
			targetDate: date(2026, time.February, 10),
		},
		{
			name: "latest invoice in december of the previous year",
			in: PolicyInput{
				Now:           date(2026, time.January, 12),
				CreatedAt:     date(2025, time.October, 12),
				LastIssueDate: ptr(date(2025, time.December, 12)),
				LineCount:     1,
			},
			due:        true,
			reasons:    []domain.Reason{},
			targetDate: date(2026, time.January, 12),
		},
		{
			name: "anchor follows latest invoice",
			in: PolicyInput{
				Now:           date(2026, time.March, 10),
				CreatedAt:     date(2026, time.January, 3),
				LastIssueDate: ptr(date(2026, time.February, 10)),
				LineCount:     1,
			},
			due:        true,
			reasons:    []domain.Reason{},
			targetDate: date(2026, time.March, 10),
		},
		{
			name: "target after end date",
			in: PolicyInput{
				Now:       date(2026, time.March, 21),
				CreatedAt: date(2026, time.January, 20),
				EndDate:   ptr(date(2026, time.March, 15)),
				LineCount: 1,
			},
			reasons:    []domain.Reason{domain.ReasonPastEndDate},
			targetDate: date(2026, time.March, 20),
		},
		{
			name: "target before end date",
			in: PolicyInput{
				Now:       date(2026, time.March, 10),
				CreatedAt: date(2026, time.January, 10),
				EndDate:   ptr(date(2026, time.March, 15)),
				LineCount: 1,
			},
			due:        true,
			reasons:    []domain.Reason{},
			targetDate: date(2026, time.March, 10),
		},
		{
			name: "target equal to end date",
			in: PolicyInput{
				Now:       date(2026, time.March, 15),
				CreatedAt: date(2026, time.January, 15),
				EndDate:   ptr(date(2026, time.March, 15)),
				LineCount: 1,
			},
			due:        true,
			reasons:    []domain.Reason{},
			targetDate: date(2026, time.March, 15),
		},
		{
			name: "ended subscription with target inside its term",
			in: PolicyInput{
				Now:       date(2026, time.March, 21),
				CreatedAt: date(2026, time.January, 10),
				EndDate:   ptr(date(2026, time.March, 15)),
				LineCount: 1,
				Ended:     true,
			},
			reasons:    []domain.Reason{domain.ReasonPastEndDate},
			targetDate: date(2026, time.March, 10),
		},
		{
			name:       "no lines even when due",
			in:         PolicyInput{Now: date(2026, time.February, 8), CreatedAt: date(2026, time.January, 8)},
			reasons:    []domain.Reason{domain.ReasonNoLines},
			targetDate: date(2026, time.February, 8),
		},
		{
			name: "every unmet condition is reported",
			in: PolicyInput{
				Now:           date(2026, time.March, 14),
				CreatedAt:     date(2026, time.January, 20),
				LastIssueDate: ptr(date(2026, time.March, 1)),
				EndDate:       ptr(date(2026, time.March, 15)),
			},
			reasons:    []domain.Reason{domain.ReasonAlreadyInvoiced, domain.ReasonNoLines},
			targetDate: date(2026, time.March, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.in)
			assert.Equal(t, tt.due, got.Due)
			assert.Equal(t, tt.reasons, got.Reasons)
			assert.True(t, tt.targetDate.Equal(got.TargetDate), "target %s, got %s", tt.targetDate, got.TargetDate)
		})
	}
}

func TestEvaluateUsesUTCCalendar(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 2026-02-08 03:00 in Jakarta is still 2026-02-07 in UTC.
	got := Evaluate(PolicyInput{
		Now:       time.Date(2026, time.February, 8, 3, 0, 0, 0, jakarta),
		CreatedAt: date(2026, time.January, 8),
		LineCount: 1,
	})
	assert.False(t, got.Due)
	assert.Equal(t, []domain.Reason{domain.ReasonNotDueYet}, got.Reasons)
}

func TestMonthBefore(t *testing.T) {
	assert.True(t, monthBefore(date(2026, time.January, 31), date(2026, time.February, 1)))
	assert.True(t, monthBefore(date(2025, time.December, 1), date(2026, time.January, 1)))
	assert.False(t, monthBefore(date(2026, time.February, 1), date(2026, time.February, 28)))
	assert.False(t, monthBefore(date(2026, time.March, 1), date(2026, time.February, 28)))
	assert.False(t, monthBefore(date(2027, time.January, 1), date(2026, time.December, 1)))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, daysIn(2026, time.January))
	assert.Equal(t, 28, daysIn(2026, time.February))
	assert.Equal(t, 29, daysIn(2024, time.February))
	assert.Equal(t, 30, daysIn(2026, time.April))
	assert.Equal(t, 31, daysIn(2026, time.December))
}
