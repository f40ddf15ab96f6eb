package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-manager/internal/adapters/memory"
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/ports"
)

type fixture struct {
	engine  *gin.Engine
	manager *app.QuoteManager
	store   *memory.QuoteStore
}

func newFixture(t *testing.T, policy app.MissingIDPolicy, source ports.QuoteSource) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewQuoteStore(memory.StoreConfig{Seed: domain.SeedQuotes()})
	svc := app.NewQuoteService(app.QuoteServiceConfig{
		Repository:      store,
		MissingID:       policy,
		SearchMaxLength: 50,
		Logger:          logger,
	})
	manager := app.NewQuoteManager(app.QuoteManagerConfig{Service: svc, Logger: logger})

	var importer *app.Importer
	if source != nil {
		importer = app.NewImporter(app.ImporterConfig{
			Source:      source,
			Service:     svc,
			Concurrency: 1,
			MaxCount:    5,
			Logger:      logger,
		})
	}

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewQuoteHandler(svc, importer).RegisterQuoteRoutes(api, api)
	NewFormHandler(manager).RegisterFormRoutes(api, api)

	return &fixture{engine: engine, manager: manager, store: store}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}
