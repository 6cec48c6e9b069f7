package utils

import "github.com/sirupsen/logrus"

// Logger is the shared logger for code without a package-level one.
var Logger = logrus.New()

// SetVerbose switches the shared logger to debug level.
func SetVerbose() {
	Logger.SetLevel(logrus.DebugLevel)
}
