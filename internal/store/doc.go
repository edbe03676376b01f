// Package store is the persistence collaborator: durable storage for
// extracted action items behind a narrow interface. The pipeline treats it
// as best-effort; storage failures are logged by the worker, never fatal to
// a job. A Postgres implementation backs production, an in-memory one backs
// database-less deployments and tests.
package store
