package ports

// QuoteMetrics records quote operation outcomes.
// A nil QuoteMetrics is never passed to adapters; services substitute a noop.
type QuoteMetrics interface {
	// RecordOperation counts one operation with its result label
	// ("ok", "not_found", "ignored", "error").
	RecordOperation(operation, result string)

	// SetStored reports the current collection size.
	SetStored(count int)
}
