// Package observability provides logging, metrics, and request correlation
// for the literature digest service.
//
// Logging is built on zerolog. NewLogger constructs a configured logger and
// the With*Context helpers attach the standard field sets (digest request,
// source search, paper) so log lines are queryable by request ID, topic,
// source, or paper identifier.
//
// Metrics are Prometheus collectors registered via promauto under a single
// namespace. The Record* helpers keep call sites to one line and ensure
// durations and counts are always observed together.
//
// Request IDs are carried on the context. The HTTP layer assigns one per
// request (or adopts the caller's) and every downstream log line includes it.
package observability
