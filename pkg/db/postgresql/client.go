package postgresql

import (
	"fmt"
	"log"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

func (c Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s",
		c.Host,
		c.Port,
		c.Username,
		c.Database,
		c.Password,
	)
}

var onceDb sync.Once
var instance *gorm.DB

func GetInstance(conf Config) *gorm.DB {

	onceDb.Do(func() {

		db, err := gorm.Open(postgres.Open(conf.dsn()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			log.Fatalf("could not connect to database: %v", err)
		}

		instance = db
	})

	return instance
}
