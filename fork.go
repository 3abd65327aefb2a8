package hatchery

// ForkOptions configures one Fork call.
type ForkOptions struct {
	// LogFile receives the child's stdout and stderr (created or truncated).
	// Empty means the null device.
	LogFile string
}
