// Package config resolves settings for both tools from ~/.roy/config.yaml and
// ROY_* environment variables: the task service URL, the workspace root, the
// extended-properties directory, timeouts and the log level.
package config
