// Package env keeps names of environment variables with special significance to
// sigma.
package env

// Environment variables with special significance to sigma.
const (
	HOME            = "HOME"
	NO_COLOR        = "NO_COLOR"
	XDG_CONFIG_HOME = "XDG_CONFIG_HOME"
	XDG_STATE_HOME  = "XDG_STATE_HOME"
)
