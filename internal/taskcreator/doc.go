// Package taskcreator implements the task_creator flow: derive a TDD
// template for a description, create the task in the tracking service, write
// the task's extended-properties file, and run a best-effort validation pass
// that re-fetches the task and re-reads the file.
package taskcreator
