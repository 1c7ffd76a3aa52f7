package configs

import (
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrMemoryDriver is returned by OpenConnection when DB_DRIVER=memory; the
// caller should use the in-memory repositories instead.
var ErrMemoryDriver = errors.New("database driver is memory")

func dialector(env ENV) (gorm.Dialector, string, error) {
	switch env.DBDriver {
	case "mysql", "":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			env.DBUser,
			env.DBPassword,
			env.DBHost,
			env.DBPort,
			env.DBName,
		)
		return mysql.Open(dsn), fmt.Sprintf("mysql://%s@%s:%s/%s", env.DBUser, env.DBHost, env.DBPort, env.DBName), nil
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			env.DBHost,
			env.DBUser,
			env.DBPassword,
			env.DBName,
			env.DBPort,
		)
		return postgres.Open(dsn), fmt.Sprintf("postgres://%s@%s:%s/%s", env.DBUser, env.DBHost, env.DBPort, env.DBName), nil
	case "memory":
		return nil, "", ErrMemoryDriver
	}
	return nil, "", fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
}

// OpenConnection opens the configured SQL database, retrying while it comes
// up. Driver errors are translated so duplicate keys surface as
// gorm.ErrDuplicatedKey.
func OpenConnection(env ENV, maxRetries int, retryDelay time.Duration) (*gorm.DB, error) {
	dial, target, err := dialector(env)
	if err != nil {
		return nil, err
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.Printf("Attempting to connect to database (Attempt %d/%d) at %s", i+1, maxRetries, target)
		db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
		if err == nil {

			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Println("✅ Database connection successful!")
					return db, nil
				}
			}

			lastErr = pingErr
			log.Printf("❌ Failed to ping database: %v. Retrying in %v...", pingErr, retryDelay)
		} else {
			lastErr = err
			log.Printf("❌ Failed to open GORM connection: %v. Retrying in %v...", err, retryDelay)
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries at %s: %w", maxRetries, target, lastErr)
}
