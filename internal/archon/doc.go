// Package archon is a small client for the remote task-tracking service.
// It creates tasks (POST /api/tasks) and fetches them (GET /api/tasks/{id}).
// Every request is bounded by a fixed timeout and never retried; any network
// error or non-2xx response surfaces as a *RemoteServiceError.
package archon
