// Package stats derives dashboard metrics from a raw case collection.
// Every function is pure; input order never affects results.
package stats

import (
	"fmt"
	"time"

	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

const hoursPerDay = 24

// Overview bundles every dashboard metric computed from one collection
type Overview struct {
	Total              int            `json:"total"`
	Anonymous          int            `json:"anonymous"`
	Identified         int            `json:"identified"`
	ActiveUsers        int            `json:"activeUsers"`
	PercentageIncrease float64        `json:"percentageIncrease"`
	ActiveUsersChange  float64        `json:"activeUsersChange"`
	AvgResponseDays    float64        `json:"avgResponseDays"`
	ByStatus           map[string]int `json:"byStatus"`
	ByType             map[string]int `json:"byType"`
	ByMonth            map[string]int `json:"byMonth"`
	ByGravity          map[string]int `json:"byGravity"`
}

// Compute derives the full overview for the given collection at the given
// point in time
func Compute(cases []models.Case, now time.Time) Overview {
	anonymous := 0
	for _, c := range cases {
		if c.IsAnonymous != 0 {
			anonymous++
		}
	}
	return Overview{
		Total:              len(cases),
		Anonymous:          anonymous,
		Identified:         len(cases) - anonymous,
		ActiveUsers:        ActiveUsers(cases),
		PercentageIncrease: PercentageIncrease(cases, now),
		ActiveUsersChange:  ActiveUsersChange(cases, now),
		AvgResponseDays:    AverageResponseDays(cases, now),
		ByStatus:           CountByStatus(cases),
		ByType:             CountByType(cases),
		ByMonth:            CountByMonth(cases),
		ByGravity:          CountByGravity(cases),
	}
}

// CountByStatus counts cases per normalized workflow status
func CountByStatus(cases []models.Case) map[string]int {
	counts := make(map[string]int)
	for _, c := range cases {
		counts[string(c.Status.Normalize())]++
	}
	return counts
}

// CountByType counts cases per free-text category
func CountByType(cases []models.Case) map[string]int {
	counts := make(map[string]int)
	for _, c := range cases {
		counts[c.Type]++
	}
	return counts
}

// CountByMonth buckets cases by creation month as "month/year". Records
// with an unparseable creation date land in the "unknown" bucket so the
// per-bucket counts still sum to the collection size.
func CountByMonth(cases []models.Case) map[string]int {
	counts := make(map[string]int)
	for _, c := range cases {
		counts[monthKey(c)]++
	}
	return counts
}

func monthKey(c models.Case) string {
	t := models.ParseDate(c.CreatedAt)
	if t.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%d/%d", int(t.Month()), t.Year())
}

// CountByGravity counts cases per backend-assigned gravity level
func CountByGravity(cases []models.Case) map[string]int {
	counts := make(map[string]int)
	for _, c := range cases {
		counts[c.GravityLevel]++
	}
	return counts
}

// PercentageIncrease compares cases created on or after the start of last
// month against the remainder. A zero previous-month count is defined as a
// full increase from a zero baseline, so the result is exactly 100.
func PercentageIncrease(cases []models.Case, now time.Time) float64 {
	boundary := monthBoundary(now)
	thisMonth := 0
	for _, c := range cases {
		if !createdAt(c).Before(boundary) {
			thisMonth++
		}
	}
	previous := len(cases) - thisMonth
	if previous == 0 {
		return 100
	}
	return float64(thisMonth-previous) / float64(previous) * 100
}

// ActiveUsers is the count of unique submitter identifiers across the
// collection. Anonymous cases still carry an identifier and are counted;
// the anonymity flag only hides the identifier in display.
func ActiveUsers(cases []models.Case) int {
	return uniqueIdentifiers(cases, func(models.Case) bool { return true })
}

// ActiveUsersChange compares current unique submitters against unique
// submitters among cases created before the last-month boundary. With a
// zero previous count, the result is 100 when any submitters exist now
// and 0 otherwise.
func ActiveUsersChange(cases []models.Case, now time.Time) float64 {
	boundary := monthBoundary(now)
	current := ActiveUsers(cases)
	previous := uniqueIdentifiers(cases, func(c models.Case) bool {
		return createdAt(c).Before(boundary)
	})
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// AverageResponseDays is the mean number of days between creation and last
// update. A case never updated counts the time elapsed until now. Empty
// collections yield 0.
func AverageResponseDays(cases []models.Case, now time.Time) float64 {
	if len(cases) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range cases {
		created := createdAt(c)
		updated := models.ParseDate(c.UpdatedAt)
		last := updated
		if !updated.After(created) {
			last = now
		}
		sum += last.Sub(created).Abs().Hours() / hoursPerDay
	}
	return sum / float64(len(cases))
}

func monthBoundary(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
}

func createdAt(c models.Case) time.Time {
	t := models.ParseDate(c.CreatedAt)
	if t.IsZero() {
		t = models.ParseDate(c.UpdatedAt)
	}
	return t
}

func uniqueIdentifiers(cases []models.Case, include func(models.Case) bool) int {
	seen := make(map[string]struct{})
	for _, c := range cases {
		if include(c) {
			seen[c.Identifier] = struct{}{}
		}
	}
	return len(seen)
}
