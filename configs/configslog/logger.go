package configslog

import (
	"os"

	"go.uber.org/zap"
)

// Log is the structured logger, SLog the sugared variant. Both default to
// no-ops so library code and tests can log without calling InitLogger first.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

func init() {
	Log = zap.NewNop()
	SLog = Log.Sugar()
}

// InitLogger builds the real logger. APP_ENV=production selects the JSON
// production config, anything else the console development config.
func InitLogger() {
	var err error
	if os.Getenv("APP_ENV") == "production" {
		Log, err = zap.NewProduction()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	SLog = Log.Sugar()
}

// SyncLogger flushes buffered log entries. Call via defer from main.
func SyncLogger() {
	_ = Log.Sync()
}
