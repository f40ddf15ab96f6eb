package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quote-manager/internal/adapters/clients"
	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// BaseAdapter holds what every upstream adapter needs: the client and the
// service name used in domain errors.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter returns a BaseAdapter for client.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

// ServiceName returns the upstream name.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get fetches path and returns the body of a successful response; the caller
// closes it. Failures come back as domain errors.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, "")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation, path)
	}

	return resp.Body, nil
}

// DecodeResponse decodes a JSON body into T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var out T
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &out, nil
}

// ValidateRequired rejects blank upstream values.
func ValidateRequired(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "is required")
	}

	return nil
}

// categoryTags maps upstream tags onto the closed category set.
var categoryTags = map[string]domain.Category{
	"motivational":  domain.CategoryMotivation,
	"inspirational": domain.CategoryMotivation,
	"success":       domain.CategoryMotivation,
	"happiness":     domain.CategoryHappiness,
}

// CategoryFromTags returns the category of the first recognised tag, or Life.
func CategoryFromTags(tags []string) domain.Category {
	for _, tag := range tags {
		if c, ok := categoryTags[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return c
		}
	}

	return domain.CategoryLife
}
