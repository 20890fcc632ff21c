package mmapalloc

const (
	envPrefix = "MMAPALLOC" // Prefix for environment configuration

	defaultLogLevel = "warn" // Level used when none is configured

	// alignRetries bounds the reserve/release/commit loop used on platforms
	// that cannot trim a mapping.
	alignRetries = 8
)
