// Package transport defines the ways a serialized report can leave the
// process. The Exporter builds and encodes the ReportRequest; a transport
// only moves bytes to the collector and hands back the raw response.
//
// Implementations MUST be thread-safe: the SDK may export several batches
// concurrently through the same Exporter.
package transport
