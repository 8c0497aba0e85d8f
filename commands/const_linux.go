package commands

const (
	_etc = "/usr/local/etc/splitwise-app-sheets"

	DEFAULT_CONFIG      = _etc + "/config.yml"
	DEFAULT_CREDENTIALS = _etc + "/.google/service_account.json"
)
