package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quote-manager/internal/adapters/clients"
	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
)

const randomPath = "/random"

// QuoteClientConfig configures a QuoteClient.
type QuoteClientConfig struct {
	// Client must point at the quotable.io API root.
	Client *clients.Client

	// ServiceName defaults to "quote-service".
	ServiceName string

	Logger *slog.Logger
}

// QuoteClient fetches random quotes from quotable.io and hands them to the
// domain as drafts.
type QuoteClient struct {
	BaseAdapter

	logger *slog.Logger
}

// NewQuoteClient panics if cfg.Client is nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	name := cfg.ServiceName
	if name == "" {
		name = "quote-service"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, name),
		logger:      logger,
	}
}

// quotableQuote is the upstream representation.
type quotableQuote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// RandomQuote fetches one random quote.
func (c *QuoteClient) RandomQuote(ctx context.Context) (domain.Draft, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", randomPath))

	body, err := c.Get(ctx, randomPath, "fetch random quote")
	if err != nil {
		return domain.Draft{}, err
	}

	ext, err := DecodeResponse[quotableQuote](body)
	if err != nil {
		return domain.Draft{}, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	draft, err := translateQuote(ext)
	if err != nil {
		return domain.Draft{}, err
	}

	c.logger.DebugContext(ctx, "fetched random quote",
		slog.String("upstream_id", ext.ID),
		slog.String("author", draft.Author),
		slog.String("category", draft.Category.String()))

	return draft, nil
}

func translateQuote(ext *quotableQuote) (domain.Draft, error) {
	if err := ValidateRequired(ext.Content, "content"); err != nil {
		return domain.Draft{}, err
	}

	author := strings.TrimSpace(ext.Author)
	if author == "" {
		author = "Unknown"
	}

	return domain.Draft{
		Text:     strings.TrimSpace(ext.Content),
		Author:   author,
		Category: CategoryFromTags(ext.Tags),
	}, nil
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, randomPath)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	return nil
}
