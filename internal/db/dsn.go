package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Credentials is the parsed form of a connection string. The string format
// is "driver:key=value;key=value;..." with recognized keys host, dbname,
// username, password, port, socket, prefix, charset, collation and
// mysql_engine; unrecognized keys are kept in Params and passed through to
// the native driver verbatim.
type Credentials struct {
	Driver      string
	Host        string
	Port        int
	Socket      string
	Database    string
	Username    string
	Password    string
	Prefix      string
	Charset     string
	Collation   string
	MySQLEngine string
	Params      map[string]string
}

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// ParseCredentials parses a connection string. It fails before any network
// activity when the string is empty, malformed, names an unsupported
// driver, or omits keys the driver requires (username/password/dbname for
// mysql, dbname for sqlite).
func ParseCredentials(connString string) (*Credentials, error) {
	connString = strings.TrimSpace(connString)
	if connString == "" {
		return nil, fmt.Errorf("connection string is empty")
	}

	driver, rest, found := strings.Cut(connString, ":")
	if !found {
		return nil, fmt.Errorf("connection string missing driver prefix (want driver:key=value;...)")
	}
	driver = strings.ToLower(strings.TrimSpace(driver))

	switch driver {
	case DriverMySQL, DriverSQLite:
	case "sqlite3":
		driver = DriverSQLite
	default:
		return nil, fmt.Errorf("unsupported driver %q (supported: mysql, sqlite)", driver)
	}

	creds := &Credentials{
		Driver:  driver,
		Host:    "localhost",
		Charset: "utf8mb4",
		Params:  map[string]string{},
	}

	for _, pair := range strings.Split(rest, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("malformed credential segment %q (want key=value)", pair)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "host":
			creds.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid port %q: %w", value, err)
			}
			creds.Port = port
		case "socket":
			creds.Socket = value
		case "dbname":
			creds.Database = value
		case "username":
			creds.Username = value
		case "password":
			creds.Password = value
		case "prefix":
			creds.Prefix = value
		case "charset":
			creds.Charset = value
		case "collation":
			creds.Collation = value
		case "mysql_engine":
			creds.MySQLEngine = value
		default:
			creds.Params[key] = value
		}
	}

	if err := creds.validate(); err != nil {
		return nil, err
	}
	return creds, nil
}

func (c *Credentials) validate() error {
	switch c.Driver {
	case DriverMySQL:
		var missing []string
		if c.Username == "" {
			missing = append(missing, "username")
		}
		if c.Password == "" {
			missing = append(missing, "password")
		}
		if c.Database == "" {
			missing = append(missing, "dbname")
		}
		if len(missing) > 0 {
			return fmt.Errorf("mysql credentials missing required keys: %s", strings.Join(missing, ", "))
		}
	case DriverSQLite:
		if c.Database == "" {
			return fmt.Errorf("sqlite credentials missing required key: dbname")
		}
	}
	return nil
}

// TableName applies the configured table prefix to a bare table name.
func (c *Credentials) TableName(name string) string {
	if c.Prefix == "" || strings.HasPrefix(name, c.Prefix) {
		return name
	}
	return c.Prefix + name
}
