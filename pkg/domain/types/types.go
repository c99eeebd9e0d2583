package types

// Version is the application version, overridden at build time via ldflags
var Version = "dev"

// ServiceName is used in health responses and log output
const ServiceName = "adowatch"
