// Package transcribe resolves audio artifacts into transcript text. The
// resolver is an ordered strategy chain: a local command-line transcriber
// first, a remote multimodal capability as its fallback, and a sentinel
// transcript when everything fails so the pipeline can degrade instead of
// aborting.
package transcribe
