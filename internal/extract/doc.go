// Package extract defines the text extraction engine: the Extractor boundary
// between the pipeline and its extraction strategies, an ordered strategy
// chain, and the local heuristic parser used when the structured reasoning
// path fails.
package extract
