package commands

const (
	_etc = "/usr/local/etc/briefing-sync"
	_var = "/usr/local/var/briefing-sync"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"

	BROWSER = "xdg-open"
)
