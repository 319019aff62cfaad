package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// slowQuery is the threshold above which GORM logs a statement as slow.
const slowQuery = 200 * time.Millisecond

type zapWriter struct{ sugar *zap.SugaredLogger }

func (w zapWriter) Printf(format string, args ...any) {
	w.sugar.Infof(format, args...)
}

// NewGormLogger routes GORM's statement log onto zap. Only warnings
// (slow queries) and errors are written; record-not-found is expected.
func NewGormLogger(l *zap.Logger) logger.Interface {
	if l == nil {
		return logger.Discard
	}
	return logger.New(zapWriter{sugar: l.Named("gorm").Sugar()}, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
