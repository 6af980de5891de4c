package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `ride-share: shared ride booking and seat inventory service

Usage:
  rideshare [--config-path <file>] [--log-level <level>]
  rideshare --help

Options:
  --config-path   Path to the YAML config file (default: config.yaml)
  --log-level     DEBUG, INFO, WARN or ERROR. Overrides LOG_LEVEL
  --help          Show this screen

Every YAML leaf maps to an environment variable (database.host -> DATABASE_HOST).
Variables already present in the environment win over the file.

Required:
  AUTH_JWT_SECRET      HS256 secret shared with the identity provider
  LOCATIONIQ_API_KEY   geocoding and routing

Storage:
  STORAGE=postgres     PostgreSQL through DATABASE_* (default)
  STORAGE=memory       in-process store, data is lost on restart
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
