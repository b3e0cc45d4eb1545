// Package memory provides in-memory data sources, useful for tests and for
// distributing data which is already at hand on the coordinator.
package memory
