//go:build !linux && !darwin

package commands

const (
	DEFAULT_WORKDIR     = "briefing-sync"
	DEFAULT_CREDENTIALS = "briefing-sync/.google/credentials.json"

	BROWSER = ""
)
