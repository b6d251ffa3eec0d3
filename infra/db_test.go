package infra

import (
	"bytes"
	"testing"

	"gin-inventory/config"
	"gin-inventory/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSetupDBLogsThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	db, err := SetupDB(config.DatabaseConfig{}, "dev", zerolog.New(&buf))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	assert.Contains(t, buf.String(), `"message":"query failed"`)
	assert.Contains(t, buf.String(), "missing_table")

	buf.Reset()
	assert.ErrorIs(t, db.Take(&models.User{}, 42).Error, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "query failed", "missing rows are not logged as errors")
}

func TestSetupDBSilentInTest(t *testing.T) {
	var buf bytes.Buffer
	db, err := SetupDB(config.DatabaseConfig{}, "test", zerolog.New(&buf))
	require.NoError(t, err)
	buf.Reset()

	assert.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	assert.Empty(t, buf.String())
}
