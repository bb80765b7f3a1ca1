// Package app wires stores, collaborators and services for the binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/teamspend/internal/amqp"
	"github.com/MrJamesThe3rd/teamspend/internal/budget"
	"github.com/MrJamesThe3rd/teamspend/internal/classify"
	classifyStore "github.com/MrJamesThe3rd/teamspend/internal/classify/store"
	"github.com/MrJamesThe3rd/teamspend/internal/config"
	"github.com/MrJamesThe3rd/teamspend/internal/database"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/teamspend/internal/expense/store"
	"github.com/MrJamesThe3rd/teamspend/internal/export"
	apiHttp "github.com/MrJamesThe3rd/teamspend/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/teamspend/internal/http/category"
	expenseHandler "github.com/MrJamesThe3rd/teamspend/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/teamspend/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/teamspend/internal/http/importcsv"
	teamHandler "github.com/MrJamesThe3rd/teamspend/internal/http/team"
	"github.com/MrJamesThe3rd/teamspend/internal/importer"
	"github.com/MrJamesThe3rd/teamspend/internal/memstore"
	"github.com/MrJamesThe3rd/teamspend/internal/notify"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
	teamStore "github.com/MrJamesThe3rd/teamspend/internal/team/store"
)

// Stores groups the ledger store roles. The in-memory store fills all of them.
type Stores struct {
	Teams    team.Repository
	Counter  team.ExpenseCounter
	Expenses expense.Repository
	Spend    budget.SpendSource
	Totals   budget.TotalWriter
	Flags    budget.AlertFlagWriter
	Rules    classify.RuleRepository
	TeamRead expense.TeamReader
}

// MemoryStores backs every role with one in-memory store.
func MemoryStores(st *memstore.Store) Stores {
	return Stores{
		Teams:    st,
		Counter:  st,
		Expenses: st,
		Spend:    st,
		Totals:   st,
		Flags:    st,
		Rules:    st,
		TeamRead: st,
	}
}

// PostgresStores backs every role with the SQL stores on db.
func PostgresStores(db *sql.DB) Stores {
	teams := teamStore.New(db)
	expenses := expenseStore.New(db)

	return Stores{
		Teams:    teams,
		Counter:  expenses,
		Expenses: expenses,
		Spend:    expenses,
		Totals:   teams,
		Flags:    teams,
		Rules:    classifyStore.New(db),
		TeamRead: teams,
	}
}

type Deps struct {
	Stores   Stores
	Notifier budget.Notifier
	// Events receives fired alerts. Optional.
	Events budget.EventSink
	// Fallback is tried after the keyword matcher. Optional.
	Fallback classify.Strategy
}

type App struct {
	Teams      *team.Service
	Expenses   *expense.Service
	Rules      *classify.RuleService
	Classifier *classify.Classifier
	Importer   *importer.Service
	Reports    *export.Service

	closers []func() error
}

// Build constructs the services from already opened dependencies.
func Build(d Deps) *App {
	var opts []budget.GateOption
	if d.Events != nil {
		opts = append(opts, budget.WithEventSink(d.Events))
	}

	var (
		recalc = budget.NewRecalculator(d.Stores.Spend, d.Stores.Totals)
		gate   = budget.NewAlertGate(d.Stores.Flags, d.Notifier, opts...)
	)

	strategies := []classify.Strategy{classify.NewKeywordMatcher(d.Stores.Rules)}
	if d.Fallback != nil {
		strategies = append(strategies, d.Fallback)
	}

	a := &App{
		Teams:      team.NewService(d.Stores.Teams, d.Stores.Counter),
		Expenses:   expense.NewService(d.Stores.Expenses, d.Stores.TeamRead, recalc, gate),
		Rules:      classify.NewRuleService(d.Stores.Rules),
		Classifier: classify.New(strategies...),
	}
	a.Importer = importer.NewService(a.Expenses, a.Classifier)
	a.Reports = export.NewService(a.Teams, a.Expenses)

	return a
}

// New opens the backends selected by cfg and builds the services. Optional
// collaborators that fail to connect are logged and left out.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		d       Deps
		closers []func() error
	)

	switch cfg.DB.Backend {
	case config.BackendMemory:
		slog.Warn("using in-memory store; data will not survive a restart")

		d.Stores = MemoryStores(memstore.New())
	default:
		db, err := database.New(ctx, cfg.ConnectionString(), cfg.Pool())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		closers = append(closers, db.Close)
		d.Stores = PostgresStores(db)
	}

	d.Notifier = notify.New(notify.Config{
		APIKey:      cfg.Email.APIKey,
		SenderName:  cfg.Email.SenderName,
		SenderEmail: cfg.Email.SenderEmail,
		BaseURL:     cfg.Email.BaseURL,
		Timeout:     cfg.Email.Timeout,
	})

	if cfg.AMQP.URL != "" {
		pub, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Warn("alert events disabled", "error", err)
		} else {
			closers = append(closers, pub.Close)
			d.Events = pub
		}
	}

	if cfg.Classifier.APIKey != "" {
		var fallback classify.Strategy = classify.NewCompletionClassifier(classify.CompletionConfig{
			APIKey:  cfg.Classifier.APIKey,
			Model:   cfg.Classifier.Model,
			BaseURL: cfg.Classifier.BaseURL,
			Timeout: cfg.Classifier.Timeout,
		})

		if cfg.Redis.Addr != "" {
			cache, err := classify.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				slog.Warn("suggestion cache disabled", "error", err)
			} else {
				closers = append(closers, cache.Close)
				fallback = classify.NewCachedStrategy(fallback, cache, cfg.Classifier.CacheTTL)
			}
		}

		d.Fallback = fallback
	}

	a := Build(d)
	a.closers = closers

	return a, nil
}

// Router returns the HTTP API over the app's services.
func (a *App) Router(opts apiHttp.Options) http.Handler {
	return apiHttp.New(
		teamHandler.NewHandler(a.Teams),
		expenseHandler.NewHandler(a.Expenses),
		categoryHandler.NewHandler(a.Classifier, a.Rules),
		importHandler.NewHandler(a.Importer, a.Teams),
		exportHandler.NewHandler(a.Reports),
		opts,
	)
}

// Close releases backends in reverse order of opening.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	return errors.Join(errs...)
}
