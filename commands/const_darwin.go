package commands

const (
	_etc = "/usr/local/etc/com.github.briefing-sync"
	_var = "/usr/local/var/com.github.briefing-sync"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"

	BROWSER = "open"
)
