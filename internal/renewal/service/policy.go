package service

import (
	"time"

	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
)

// PolicyInput is what the monthly anchor policy needs to know about one subscription.
type PolicyInput struct {
	Now           time.Time
	CreatedAt     time.Time
	LastIssueDate *time.Time
	EndDate       *time.Time
	LineCount     int
	// Ended marks a subscription whose end date is not after now. Renewal
	// selection never returns those; inspection does.
	Ended bool
}

// Evaluate applies the monthly anchor-date policy. Every unmet condition
// contributes a reason; the subscription is due only when there are none.
func Evaluate(in PolicyInput) domain.Evaluation {
	now := in.Now.UTC()

	base := in.CreatedAt.UTC()
	if in.LastIssueDate != nil {
		base = in.LastIssueDate.UTC()
	}

	anchorDay := base.Day()
	target := targetDate(now, anchorDay)

	reasons := make([]domain.Reason, 0, 4)
	if now.Before(target) {
		reasons = append(reasons, domain.ReasonNotDueYet)
	}
	if in.LastIssueDate != nil && !monthBefore(in.LastIssueDate.UTC(), now) {
		reasons = append(reasons, domain.ReasonAlreadyInvoiced)
	}
	if in.Ended || (in.EndDate != nil && target.After(in.EndDate.UTC())) {
		reasons = append(reasons, domain.ReasonPastEndDate)
	}
	if in.LineCount == 0 {
		reasons = append(reasons, domain.ReasonNoLines)
	}

	return domain.Evaluation{
		Due:           len(reasons) == 0,
		Reasons:       reasons,
		AnchorDay:     anchorDay,
		TargetDate:    target,
		LastIssueDate: in.LastIssueDate,
		EndDate:       in.EndDate,
		LineCount:     in.LineCount,
	}
}

// targetDate is midnight UTC on the anchor day of now's month, clamped to the month's last day.
func targetDate(now time.Time, anchorDay int) time.Time {
	day := min(anchorDay, daysIn(now.Year(), now.Month()))
	return time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthBefore reports whether a falls in a calendar month earlier than b's.
// An invoice in now's month or a later one blocks renewal.
func monthBefore(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	return a.Month() < b.Month()
}
