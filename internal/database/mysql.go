package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func openMySQL(cfg Config) (*gorm.DB, error) {
	dsn, err := buildMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// mysqlDefaults are required for correct behaviour with gorm: parseTime so
// DATETIME columns scan into time.Time, utf8mb4 so names survive round-trips.
var mysqlDefaults = map[string]string{
	"charset":   "utf8mb4",
	"parseTime": "True",
	"loc":       "Local",
}

func buildMySQLDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("mysql requires a user and a database name")
	}

	credentials := cfg.User
	if cfg.Password != "" {
		credentials += ":" + cfg.Password
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	options := make(map[string]string, len(mysqlDefaults)+len(cfg.Options))
	for key, value := range mysqlDefaults {
		options[key] = value
	}
	for key, value := range cfg.Options {
		options[key] = value
	}

	// Sorted so the same configuration always yields the same DSN.
	pairs := make([]string, 0, len(options))
	for key := range options {
		pairs = append(pairs, key)
	}
	sort.Strings(pairs)
	for i, key := range pairs {
		pairs[i] = key + "=" + options[key]
	}

	return fmt.Sprintf("%s@tcp(%s:%d)/%s?%s", credentials, host, port, cfg.Name, strings.Join(pairs, "&")), nil
}
