package storage

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Driver selects the SQL backend holding the ledger.
type Driver string

const (
	DriverSQLite Driver = "sqlite"
	DriverPgx    Driver = "pgx"
)

func (d Driver) IsValid() bool {
	return d == DriverSQLite || d == DriverPgx
}

// sqlName is the database/sql driver name registered by the imported driver package.
func (d Driver) sqlName() string {
	return string(d)
}

func (d Driver) migrationsDir() string {
	if d == DriverPgx {
		return path.Join("migrations", "postgres")
	}
	return path.Join("migrations", "sqlite")
}

// rebind rewrites '?' placeholders into the driver's native form.
func (d Driver) rebind(query string) string {
	if d != DriverPgx {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteDSN turns a file path into a modernc DSN. The busy timeout lets
// concurrent writers queue on the database lock instead of failing.
func sqliteDSN(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return dbPath + "?" + q.Encode()
}
