package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// Enabled reports whether an optional integration is configured and logs the
// decision once at startup.
func Enabled(value, envName, feature string) bool {
	if value == "" {
		log.Printf("notice: %s is empty, %s disabled", envName, feature)
		return false
	}
	return true
}
