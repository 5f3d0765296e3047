// ABOUTME: Collaborators handed to the view services at assembly time
// ABOUTME: Nil Logger and Recorder fall back to no-op implementations

package interfaces

// Dependencies groups the collaborators shared by core services.
// Store is required.
type Dependencies struct {
	Store    MetricStore
	Logger   Logger
	Recorder Recorder
}
