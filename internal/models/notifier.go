package models

// Notifier is the narrow port for user-visible messages. The core emits only
// at well-defined boundaries: after a successful reload, after a mutation is
// confirmed, and on user-actionable errors. Background failures stay silent.
type Notifier interface {
	Success(text string)
	Info(text string)
	Error(text string)
}
