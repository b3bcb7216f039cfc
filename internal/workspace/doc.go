// Package workspace manages per-task working directories under a single root.
//
// Each workspace is a direct child directory named "{category}-{slug}" that
// holds a .roy-metadata.json document, a README.md and the standard
// artifacts/ and checkpoints/ subtrees. Workspaces are found by scanning the
// root for the metadata document whose task_id matches; there is no index.
//
// Mutating operations hold an exclusive lock on a file in the root and reads
// hold a shared one, so concurrent invocations cannot pick the same directory
// name or lose a metadata update.
package workspace
