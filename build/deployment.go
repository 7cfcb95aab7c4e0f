package build

// DeploymentType is an enum specifying the deployment to compile.
type DeploymentType byte

const (
	// Development is a deployment used by unit tests. Combined with the
	// stdlog tag it lets every package log to stdout without an embedding
	// application.
	Development DeploymentType = iota

	// Production is a deployment in which packages only log through the
	// loggers handed to them.
	Production
)
