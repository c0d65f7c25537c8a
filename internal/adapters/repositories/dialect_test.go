package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialectRebind(t *testing.T) {
	q := "SELECT 1 FROM loads WHERE carrier_id = ? AND status = ? AND venture_id = ?"

	assert.Equal(t,
		"SELECT 1 FROM loads WHERE carrier_id = $1 AND status = $2 AND venture_id = $3",
		DialectPostgres.Rebind(q),
	)
	assert.Equal(t, q, DialectSQLite.Rebind(q))
	assert.Equal(t, DialectSQLite, DialectFor("sqlite"))
	assert.Equal(t, DialectPostgres, DialectFor("pgx"))
}
