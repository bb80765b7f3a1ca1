package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/metrics"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

//go:generate mockgen -source=gate.go -destination=gate_mock.go -package=budget

// AlertFlagWriter persists a single alert flag of a team.
type AlertFlagWriter interface {
	SetAlertSent(ctx context.Context, teamID uuid.UUID, flag team.AlertFlag, sent bool) error
}

// Notifier delivers a threshold alert to the team's members.
type Notifier interface {
	SendAlert(ctx context.Context, recipients []string, alert AlertContext) error
}

// EventSink receives every alert that was delivered.
type EventSink interface {
	PublishAlert(ctx context.Context, event AlertEvent) error
}

// AlertContext is what a notifier needs to render an alert.
type AlertContext struct {
	TeamName   string
	Budget     int64 // cents
	Spent      int64 // cents
	Percentage int   // whole percent
	Threshold  team.AlertFlag
}

// AlertEvent records a delivered alert.
type AlertEvent struct {
	TeamID     uuid.UUID      `json:"team_id"`
	TeamName   string         `json:"team_name"`
	Threshold  team.AlertFlag `json:"threshold"`
	Percentage float64        `json:"percentage"`
	Spent      int64          `json:"spent_cents"`
	Budget     int64          `json:"budget_cents"`
	At         time.Time      `json:"at"`
}

type AlertGate struct {
	flags    AlertFlagWriter
	notifier Notifier
	sink     EventSink
	now      func() time.Time
}

type GateOption func(*AlertGate)

// WithEventSink publishes delivered alerts to sink.
func WithEventSink(sink EventSink) GateOption {
	return func(g *AlertGate) { g.sink = sink }
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) GateOption {
	return func(g *AlertGate) { g.now = now }
}

func NewAlertGate(flags AlertFlagWriter, notifier Notifier, opts ...GateOption) *AlertGate {
	g := &AlertGate{flags: flags, notifier: notifier, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Evaluate steps every threshold machine of t against its current spend and
// applies the resulting transitions. t is updated in place. Delivery and
// storage failures are logged, never returned.
func (g *AlertGate) Evaluate(ctx context.Context, t *team.Team) []AlertEvent {
	pct := team.Percentage(t.TotalSpent, t.Budget).InexactFloat64()

	var events []AlertEvent

	for _, th := range Thresholds {
		m := Machine{Threshold: th, State: StateOf(t.AlertSent(th.Flag))}

		switch m.Step(pct, t.HasRecipients()) {
		case Fire:
			if ev, ok := g.fire(ctx, t, th, pct); ok {
				events = append(events, ev)
			}
		case Rearm:
			g.rearm(ctx, t, th)
		case Hold:
		}
	}

	return events
}

func (g *AlertGate) fire(ctx context.Context, t *team.Team, th Threshold, pct float64) (AlertEvent, bool) {
	alert := AlertContext{
		TeamName:   t.Name,
		Budget:     t.Budget,
		Spent:      t.TotalSpent,
		Percentage: wholePercent(t.TotalSpent, t.Budget),
		Threshold:  th.Flag,
	}

	if err := g.notifier.SendAlert(ctx, t.Members, alert); err != nil {
		metrics.AlertFailures.WithLabelValues(string(th.Flag)).Inc()
		slog.ErrorContext(ctx, "failed to send budget alert",
			"team_id", t.ID,
			"threshold", th.Flag,
			"error", fmt.Errorf("%w: %w", apperr.ErrNotification, err),
		)

		return AlertEvent{}, false
	}

	metrics.AlertsSent.WithLabelValues(string(th.Flag)).Inc()

	t.SetAlertSent(th.Flag, true)

	if err := g.flags.SetAlertSent(ctx, t.ID, th.Flag, true); err != nil {
		slog.ErrorContext(ctx, "failed to persist alert flag", "team_id", t.ID, "threshold", th.Flag, "error", err)
	}

	slog.InfoContext(ctx, "budget alert sent", "team_id", t.ID, "threshold", th.Flag, "percentage", pct, "recipients", len(t.Members))

	ev := AlertEvent{
		TeamID:     t.ID,
		TeamName:   t.Name,
		Threshold:  th.Flag,
		Percentage: pct,
		Spent:      t.TotalSpent,
		Budget:     t.Budget,
		At:         g.now(),
	}

	if g.sink != nil {
		if err := g.sink.PublishAlert(ctx, ev); err != nil {
			slog.WarnContext(ctx, "failed to publish alert event", "team_id", t.ID, "threshold", th.Flag, "error", err)
		}
	}

	return ev, true
}

func (g *AlertGate) rearm(ctx context.Context, t *team.Team, th Threshold) {
	t.SetAlertSent(th.Flag, false)

	if err := g.flags.SetAlertSent(ctx, t.ID, th.Flag, false); err != nil {
		slog.ErrorContext(ctx, "failed to reset alert flag", "team_id", t.ID, "threshold", th.Flag, "error", err)
		return
	}

	slog.InfoContext(ctx, "budget alert re-armed", "team_id", t.ID, "threshold", th.Flag)
}

// wholePercent rounds spent/budget*100 to the nearest integer.
func wholePercent(spent, budget int64) int {
	if budget <= 0 {
		return 0
	}

	return int(decimal.NewFromInt(spent).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(budget)).Round(0).IntPart())
}
