// ABOUTME: Structured logger contract shared by services, stores and handlers
// ABOUTME: Fields travel as a map so adapters can emit them as JSON keys

package interfaces

// Logger writes leveled messages with structured fields. A nil fields map is
// allowed at every level.
//
//	logger.Debug("View refresh skipped", map[string]interface{}{
//		"entity": "post:42",
//		"reason": "fresh",
//	})
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards every message
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
