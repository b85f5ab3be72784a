package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Session() SessionRepository
	Screenshot() ScreenshotRepository
	State() StateRepository

	Close() error
}
