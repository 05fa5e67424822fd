package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "request":
		return requestTemplate, nil
	case "request-yaml":
		return requestYAMLTemplate, nil
	case "server":
		return serverTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

// Values are integers in the parameter's unit, "default" or "skip".
const requestTemplate = `# device is a free-form label for logs; it is not sent to the sensor.
device = "tek766"

[parameters]
tx_period = 6             # hours, 1-720
tx_randomization = "default" # minutes, 1-240
logger_interval = "skip"  # minutes, 2-1440
status_period = 7         # days, 1-30
ping_rate = "default"     # minutes, 1-240
`

const requestYAMLTemplate = `# device is a free-form label for logs; it is not sent to the sensor.
device: tek766
parameters:
  tx_period: 6
  tx_randomization: default
  logger_interval: skip
  status_period: 7
  ping_rate: default
`

const serverTemplate = `name = "tekctl"
addr = ":8042"
cors_origins = ["http://localhost:3000"]
# token = "change-me"
`
