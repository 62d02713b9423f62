package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// requiredConnectionProperties mirrors the original loader's
// REQUIRED_CONNECTION_PROPERTIES check: a connection file missing any of
// these is a fatal config error, not a degraded-default situation.
var requiredConnectionProperties = []string{"host", "port", "database", "user", "password"}

// Connection holds the parameters needed to reach the PostGIS/pgRouting
// sink database.
type Connection struct {
	Host             string `koanf:"host" yaml:"host"`
	Port             int    `koanf:"port" yaml:"port"`
	Database         string `koanf:"database" yaml:"database"`
	User             string `koanf:"user" yaml:"user"`
	Password         string `koanf:"password" yaml:"password"`
	SSLMode          string `koanf:"sslmode" yaml:"sslmode"`
	TablePrefix      string `koanf:"table_prefix" yaml:"table_prefix"`
	LengthProjection string `koanf:"length_projection" yaml:"length_projection"`
}

// LoadConnection reads a YAML connection file and validates that every
// required property is present and non-empty.
func LoadConnection(path string) (*Connection, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load connection config %s: %w", path, err)
	}

	for _, prop := range requiredConnectionProperties {
		if !k.Exists(prop) || k.String(prop) == "" {
			if prop == "port" && k.Exists(prop) {
				continue // port is numeric, String() of a number is non-empty anyway
			}
			return nil, fmt.Errorf("connection config %s: missing required property %q", path, prop)
		}
	}

	conn := &Connection{SSLMode: "disable"}
	if err := k.Unmarshal("", conn); err != nil {
		return nil, fmt.Errorf("unmarshal connection config %s: %w", path, err)
	}
	if conn.Host == "" || conn.Database == "" || conn.User == "" {
		return nil, fmt.Errorf("connection config %s: incomplete after unmarshal", path)
	}
	return conn, nil
}

// DSN renders the connection as a lib/pq-compatible connection string.
func (c *Connection) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, sslmode)
}
