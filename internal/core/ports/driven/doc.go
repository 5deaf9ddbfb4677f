// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): stores, the extraction cache, the LLM
// capability, the search index and the format extractor registry.
package driven
