package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quote-manager/internal/app/batch"
	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/ports"
)

const (
	defaultImportConcurrency = 4
	defaultImportMaxCount    = 20
)

// ImporterConfig contains configuration for the importer.
type ImporterConfig struct {
	// Source and Service are required.
	Source  ports.QuoteSource
	Service *QuoteService

	// Concurrency bounds in-flight upstream calls. Defaults to 4.
	Concurrency int

	// MaxCount caps ImportRequest.Count. Defaults to 20.
	MaxCount int

	Logger *slog.Logger
}

// ImportRequest asks for Count random quotes.
type ImportRequest struct {
	Count int

	// BestEffort keeps whatever was fetched when some upstream calls fail.
	// Otherwise the first failure aborts the import with nothing added.
	BestEffort bool
}

// ImportResult summarizes one import.
type ImportResult struct {
	Imported   []domain.Quote
	Duplicates int
	Failed     int
}

// Importer pulls random quotes from an upstream source into the collection.
type Importer struct {
	source      ports.QuoteSource
	svc         *QuoteService
	exec        *Executor
	concurrency int
	maxCount    int
}

// NewImporter creates an importer. It panics without a source or service.
func NewImporter(cfg ImporterConfig) *Importer {
	if cfg.Source == nil || cfg.Service == nil {
		panic("app: Importer requires a Source and a Service")
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultImportConcurrency
	}

	maxCount := cfg.MaxCount
	if maxCount <= 0 {
		maxCount = defaultImportMaxCount
	}

	return &Importer{
		source:      cfg.Source,
		svc:         cfg.Service,
		exec:        NewExecutor(cfg.Logger),
		concurrency: concurrency,
		maxCount:    maxCount,
	}
}

type fetchOutcome struct {
	drafts []domain.Draft
	failed int
}

type importPlan struct {
	drafts     []domain.Draft
	duplicates int
	failed     int
	added      []domain.Quote
}

// Import fetches req.Count quotes, drops blanks and texts already in the
// collection, and adds the rest in one batch.
func (i *Importer) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	op := Operation[ImportRequest, fetchOutcome, *importPlan, ImportResult]{
		Name:     "import_quotes",
		Validate: i.validate,
		Perform:  i.fetch,
		Verify:   i.verify,
		Archive:  i.archive,
		Respond: func(_ context.Context, _ ImportRequest, plan *importPlan) (ImportResult, error) {
			return ImportResult{
				Imported:   plan.added,
				Duplicates: plan.duplicates,
				Failed:     plan.failed,
			}, nil
		},
	}

	return Execute(ctx, i.exec, op, req)
}

func (i *Importer) validate(_ context.Context, req ImportRequest) error {
	if req.Count < 1 || req.Count > i.maxCount {
		return domain.NewValidationErrorWithValue("count",
			fmt.Sprintf("must be between 1 and %d", i.maxCount), req.Count)
	}

	return nil
}

func (i *Importer) fetch(ctx context.Context, req ImportRequest) (fetchOutcome, error) {
	if !req.BestEffort {
		drafts, err := fetchAll(ctx, req.Count, i.concurrency, i.source.RandomQuote)
		if err != nil {
			return fetchOutcome{}, err
		}

		return fetchOutcome{drafts: drafts}, nil
	}

	drafts, failed := fetchSome(ctx, req.Count, i.concurrency, i.source.RandomQuote)
	if len(drafts) == 0 {
		return fetchOutcome{failed: failed}, domain.NewUnavailableError("quote-source", "every fetch failed")
	}

	return fetchOutcome{drafts: drafts, failed: failed}, nil
}

func (i *Importer) verify(ctx context.Context, _ ImportRequest, fetched fetchOutcome) (*importPlan, error) {
	existing, err := i.svc.List(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing)+len(fetched.drafts))
	for _, q := range existing {
		seen[normalizeText(q.Text)] = struct{}{}
	}

	plan := &importPlan{failed: fetched.failed}

	for _, d := range fetched.drafts {
		if strings.TrimSpace(d.Text) == "" || strings.TrimSpace(d.Author) == "" {
			plan.failed++
			continue
		}

		key := normalizeText(d.Text)
		if _, dup := seen[key]; dup {
			plan.duplicates++
			continue
		}

		seen[key] = struct{}{}
		plan.drafts = append(plan.drafts, d)
	}

	return plan, nil
}

func (i *Importer) archive(ctx context.Context, _ ImportRequest, plan *importPlan) error {
	b := batch.New()
	actions := make([]*addQuote, len(plan.drafts))

	for n, d := range plan.drafts {
		actions[n] = &addQuote{svc: i.svc, draft: d}
		if err := b.Stage(actions[n]); err != nil {
			return err
		}
	}

	if err := b.Commit(ctx); err != nil {
		return err
	}

	for _, a := range actions {
		plan.added = append(plan.added, a.added)
	}

	return nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// addQuote is a batch.Action that adds one draft.
type addQuote struct {
	svc   *QuoteService
	draft domain.Draft
	added domain.Quote
}

func (a *addQuote) Execute(ctx context.Context) error {
	q, err := a.svc.Add(ctx, a.draft)
	if err != nil {
		return err
	}

	a.added = q

	return nil
}

func (a *addQuote) Rollback(ctx context.Context) error {
	_, err := a.svc.Delete(ctx, a.added.ID)

	return err
}

func (a *addQuote) Description() string {
	return "add quote by " + a.draft.Author
}
