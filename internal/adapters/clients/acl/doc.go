// Package acl is the anti-corruption layer between upstream quote providers
// and the domain.
//
// Upstream DTOs stay unexported inside this package. Adapters embed
// [BaseAdapter], decode responses with [DecodeResponse], and report failures
// through [MapHTTPError] so callers only ever see domain errors:
//
//	404                  -> domain.ErrNotFound
//	400, 422, other 4xx  -> domain.ErrValidation
//	401, 403             -> domain.ErrForbidden
//	409                  -> domain.ErrConflict
//	429, 5xx, transport  -> domain.ErrUnavailable
//
// [QuoteClient] is the quotable.io adapter. It implements ports.QuoteSource
// for the importer and ports.HealthChecker for readiness.
package acl
