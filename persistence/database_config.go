package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_URL=mysql://root:root@(127.0.0.1:3306)/shopwork?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	databaseURL := os.ExpandEnv(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return nil, errors.New("environment variable DATABASE_URL is not set")
	}
	idx := strings.Index(databaseURL, "://")
	if idx <= 0 || idx == len(databaseURL)-3 {
		return nil, errors.New("invalid DATABASE_URL: " + databaseURL)
	}
	return &DatabaseConfig{DriverType: databaseURL[0:idx], DriverArgs: databaseURL[idx+3:]}, nil
}

// PrepareMysqlDatabase create the database of the driver args when it does not exist yet
func PrepareMysqlDatabase(driverArgs string) error {
	dbNameBegin := strings.LastIndex(driverArgs, "/")
	if dbNameBegin < 0 {
		return errors.New("database name not found in driver args")
	}
	dbNameEnd := strings.Index(driverArgs[dbNameBegin:], "?")
	var dbName, serverArgs string
	if dbNameEnd < 0 {
		dbName = driverArgs[dbNameBegin+1:]
		serverArgs = driverArgs[0 : dbNameBegin+1]
	} else {
		dbName = driverArgs[dbNameBegin+1 : dbNameBegin+dbNameEnd]
		serverArgs = driverArgs[0:dbNameBegin+1] + driverArgs[dbNameBegin+dbNameEnd:]
	}
	if dbName == "" {
		return errors.New("database name not found in driver args")
	}

	db, err := sql.Open("mysql", serverArgs)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS `" + dbName + "` CHARACTER SET utf8mb4")
	return err
}
