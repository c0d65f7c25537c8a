package repositories

import (
	"strconv"
	"strings"
)

// SQL flavour of the carrier store. Queries are written with "?" placeholders
// and rebound for Postgres.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// DialectFor maps a database/sql driver name onto its dialect.
func DialectFor(driver string) Dialect {
	if driver == "sqlite" {
		return DialectSQLite
	}
	return DialectPostgres
}

// Rebind rewrites "?" placeholders as "$1, $2, ..." for Postgres.
// Queries must not contain literal question marks.
func (d Dialect) Rebind(q string) string {
	if d != DialectPostgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
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
