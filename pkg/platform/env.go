// Package platform provides process-level helpers shared by every entry
// point: environment lookups with defaults and logger bootstrap.
package platform

import "os"

func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
