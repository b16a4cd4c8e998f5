package pipedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/softvask/followup/internal/domain"
)

// Stages returns every pipeline stage.
func (c *Client) Stages(ctx context.Context) ([]domain.Stage, error) {
	data, err := c.get(ctx, "/stages", nil)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	var stages []domain.Stage
	if len(data) > 0 {
		if err := json.Unmarshal(data, &stages); err != nil {
			return nil, fmt.Errorf("list stages: decode: %w", err)
		}
	}
	return stages, nil
}

// OpenDeals returns every deal with status "open", walking offset pagination
// until the first short page.
func (c *Client) OpenDeals(ctx context.Context) ([]domain.DealSnapshot, error) {
	var deals []domain.DealSnapshot
	for start := 0; ; start += pageSize {
		query := url.Values{}
		query.Set("status", "open")
		query.Set("start", strconv.Itoa(start))
		query.Set("limit", strconv.Itoa(pageSize))

		data, err := c.get(ctx, "/deals", query)
		if err != nil {
			return nil, fmt.Errorf("list deals at offset %d: %w", start, err)
		}

		var chunk []domain.DealSnapshot
		if len(data) > 0 && string(data) != "null" {
			if err := json.Unmarshal(data, &chunk); err != nil {
				return nil, fmt.Errorf("list deals at offset %d: decode: %w", start, err)
			}
		}
		deals = append(deals, chunk...)
		if len(chunk) < pageSize {
			return deals, nil
		}
	}
}

// person mirrors the fields of a person record this service reads. The email
// field arrives either as a list of {value, primary} objects or as a bare
// string.
type person struct {
	ID    int64 `json:"id"`
	Email any   `json:"email"`
}

// PersonEmail returns the person's first email address, or "" when the
// person has none.
func (c *Client) PersonEmail(ctx context.Context, personID int64) (string, error) {
	data, err := c.get(ctx, "/persons/"+strconv.FormatInt(personID, 10), nil)
	if err != nil {
		return "", fmt.Errorf("get person %d: %w", personID, err)
	}
	if len(data) == 0 || string(data) == "null" {
		return "", nil
	}

	var p person
	if err := json.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("get person %d: decode: %w", personID, err)
	}

	switch email := p.Email.(type) {
	case string:
		return email, nil
	case []any:
		for _, entry := range email {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if v, ok := m["value"].(string); ok && v != "" {
				return v, nil
			}
		}
	}
	return "", nil
}

// NoteLink identifies the record a note attaches to. Zero means unset.
type NoteLink struct {
	DealID   int64
	PersonID int64
	OrgID    int64
	LeadID   int64
}

// AddNote creates a note attached to exactly one record, chosen by priority:
// deal, then person, then organization, then lead. A link-less note returns
// ErrNoteNotLinkable.
func (c *Client) AddNote(ctx context.Context, link NoteLink, content string) error {
	body := map[string]any{"content": content}
	switch {
	case link.DealID != 0:
		body["deal_id"] = link.DealID
	case link.PersonID != 0:
		body["person_id"] = link.PersonID
	case link.OrgID != 0:
		body["org_id"] = link.OrgID
	case link.LeadID != 0:
		body["lead_id"] = link.LeadID
	default:
		return ErrNoteNotLinkable
	}

	if _, err := c.post(ctx, "/notes", body); err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	return nil
}

// AddActivity schedules an activity on a deal, due dueInDays days from now.
func (c *Client) AddActivity(ctx context.Context, dealID int64, subject, activityType string, dueInDays int) error {
	due := time.Now().UTC().AddDate(0, 0, dueInDays).Format("2006-01-02")
	body := map[string]any{
		"subject":  subject,
		"type":     activityType,
		"deal_id":  dealID,
		"due_date": due,
	}
	if _, err := c.post(ctx, "/activities", body); err != nil {
		return fmt.Errorf("add activity: %w", err)
	}
	return nil
}
