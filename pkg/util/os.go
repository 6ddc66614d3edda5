package util

import (
	"os"
	"strings"
)

// GetInstanceID identifies this simulator process in exported metrics.
func GetInstanceID() string {
	if id := os.Getenv("INSTANCE_ID"); id != "" {
		return id
	}
	const machineIDPath = "/etc/machine-id"
	if data, err := os.ReadFile(machineIDPath); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return "unknown-instance"
}
