package database

import (
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenMySQL dials MySQL through GORM. TranslateError turns driver errors
// into gorm sentinels so repositories can match on errors.Is.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	return db, nil
}
