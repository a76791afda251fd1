package ports

// Frontend defines the interface for a long-running entry point that
// accepts artifacts from users
type Frontend interface {
	// Start starts serving requests without blocking
	Start() error

	// Stop gracefully stops the front-end
	Stop() error
}
