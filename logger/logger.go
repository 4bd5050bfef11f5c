package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. It is configured once via Init and
// used across all packages for structured logging.
var Log = logrus.New()

// Init configures the global logger. JSON output is used so that log
// aggregators can parse the fields emitted via WithFields.
func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
