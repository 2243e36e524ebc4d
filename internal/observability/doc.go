// Package observability provides event logging for the card-processing
// pipeline. It uses structured JSON Lines (JSONL) for event persistence so
// runs can be inspected and replayed after the fact.
package observability
