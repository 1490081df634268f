// Package env reads raw environment variables for the few settings that must
// resolve before the TEAFARM_-prefixed config is loaded, such as LOG_FORMAT
// for the startup logger.
package env

import "os"

// Get returns the value of key, or fallback when the variable is unset or
// empty. Unlike pkg/config it applies no TEAFARM_ prefix.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
