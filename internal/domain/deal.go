package domain

import "time"

// NeverActiveStaleness is the staleness assigned to deals with no recorded
// activity, so they are always eligible for follow-up rather than silently
// skipped.
const NeverActiveStaleness = 999

// DealSnapshot is one entry from the bulk deal listing.
type DealSnapshot struct {
	ID               int64  `json:"id"`
	StageID          int64  `json:"stage_id"`
	PersonID         any    `json:"person_id"`
	LastActivityDate string `json:"last_activity_date"`
}

// PersonRef returns the deal's associated person id, if any. The person_id
// field arrives either as a bare number or as an embedded reference object.
func (d DealSnapshot) PersonRef() (int64, bool) {
	return CoerceID(d.PersonID)
}

// StalenessDays returns the number of whole days between the deal's last
// activity date and today. Deals with no last activity date, or one that
// does not parse as YYYY-MM-DD, get NeverActiveStaleness.
func (d DealSnapshot) StalenessDays(today time.Time) int {
	if d.LastActivityDate == "" {
		return NeverActiveStaleness
	}
	last, err := time.Parse("2006-01-02", d.LastActivityDate)
	if err != nil {
		return NeverActiveStaleness
	}
	y, m, day := today.UTC().Date()
	midnight := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return int(midnight.Sub(last).Hours() / 24)
}
