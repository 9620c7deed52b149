// Package constant holds build metadata set with -ldflags.
package constant

var (
	Version   = "dev"
	BuildTime = "unknown"
)
