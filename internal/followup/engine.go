// Package followup decides which stalled open deals get a follow-up and
// fires it: an email to the deal's contact, a note on the deal, and a
// reminder activity. One sweep evaluates every open deal exactly once.
package followup

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/softvask/followup/internal/domain"
	"github.com/softvask/followup/internal/mail"
	"github.com/softvask/followup/internal/pipedrive"
)

// defaultParallelism bounds the per-deal fan-out when none is configured.
const defaultParallelism = 8

// CRM is the slice of the Pipedrive API the sweep engine consumes.
type CRM interface {
	Stages(ctx context.Context) ([]domain.Stage, error)
	OpenDeals(ctx context.Context) ([]domain.DealSnapshot, error)
	PersonEmail(ctx context.Context, personID int64) (string, error)
	AddNote(ctx context.Context, link pipedrive.NoteLink, content string) error
	AddActivity(ctx context.Context, dealID int64, subject, activityType string, dueInDays int) error
}

// Result maps each action key to the number of follow-ups fired for it.
type Result map[string]int

// Config holds the collaborators and settings for an Engine.
type Config struct {
	CRM         CRM
	Sender      mail.Sender
	Actions     []Action         // defaults to DefaultActions
	Parallelism int              // defaults to defaultParallelism
	Now         func() time.Time // defaults to time.Now
}

// Engine runs follow-up sweeps over all open deals.
type Engine struct {
	crm      CRM
	sender   mail.Sender
	actions  []Action
	parallel int
	now      func() time.Time
}

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	e := &Engine{
		crm:      cfg.CRM,
		sender:   cfg.Sender,
		actions:  cfg.Actions,
		parallel: cfg.Parallelism,
		now:      cfg.Now,
	}
	if e.actions == nil {
		e.actions = DefaultActions()
	}
	if e.parallel < 1 {
		e.parallel = defaultParallelism
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// resolvedAction is an Action whose stage name resolved to an id in the
// current catalog. Actions that did not resolve never match this run.
type resolvedAction struct {
	Action
	stageID int64
}

// Run performs one sweep. Catalog and deal-listing failures abort the whole
// sweep; per-deal failures are logged and skip only that deal. Deals are
// processed with bounded parallelism; within one deal, actions are evaluated
// in their configured order.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	stages, err := e.crm.Stages(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch stage catalog: %w", err)
	}
	catalog := domain.NewStageCatalog(stages)

	var active []resolvedAction
	for _, a := range e.actions {
		id, ok := catalog.Lookup(a.StageName)
		if !ok {
			slog.Warn("stage name not in catalog, threshold disabled this run", "stage", a.StageName)
			continue
		}
		active = append(active, resolvedAction{Action: a, stageID: id})
	}

	deals, err := e.crm.OpenDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open deals: %w", err)
	}

	counters := make(map[string]*atomic.Int64, len(e.actions))
	for _, a := range e.actions {
		counters[a.Key] = new(atomic.Int64)
	}

	today := e.now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for _, deal := range deals {
		g.Go(func() error {
			key, err := e.processDeal(gctx, deal, active, today)
			if err != nil {
				slog.Error("deal skipped", "deal_id", deal.ID, "error", err)
				return nil
			}
			if key != "" {
				counters[key].Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := make(Result, len(counters))
	for key, n := range counters {
		result[key] = int(n.Load())
	}
	return result, nil
}

// processDeal evaluates one deal against the active actions and fires at
// most one follow-up. It returns the key of the fired action, or "" when
// nothing fired.
func (e *Engine) processDeal(ctx context.Context, deal domain.DealSnapshot, active []resolvedAction, today time.Time) (string, error) {
	var email string
	if personID, ok := deal.PersonRef(); ok {
		var err error
		email, err = e.crm.PersonEmail(ctx, personID)
		if err != nil {
			return "", fmt.Errorf("resolve contact email: %w", err)
		}
	}

	staleness := deal.StalenessDays(today)
	for _, a := range active {
		if deal.StageID != a.stageID || staleness < a.MinStalenessDays || email == "" {
			continue
		}

		if err := e.sender.Send(ctx, email, a.EmailSubject, a.EmailBody); err != nil {
			slog.Warn("follow-up email failed, no note or reminder recorded",
				"deal_id", deal.ID, "action", a.Key, "error", err)
			return "", nil
		}

		if err := e.crm.AddNote(ctx, pipedrive.NoteLink{DealID: deal.ID}, a.NoteContent); err != nil {
			return "", fmt.Errorf("record follow-up note: %w", err)
		}
		if err := e.crm.AddActivity(ctx, deal.ID, ReminderSubject, ReminderType, a.ReminderDueInDays); err != nil {
			return "", fmt.Errorf("schedule reminder: %w", err)
		}

		slog.Info("follow-up sent", "deal_id", deal.ID, "action", a.Key, "staleness_days", staleness)
		return a.Key, nil
	}
	return "", nil
}
