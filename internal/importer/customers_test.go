package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbpkg "github.com/salontid/salontid-api/internal/db"
	"github.com/salontid/salontid-api/internal/models"
)

func newTestImporter(t *testing.T) (*CustomerImporter, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(gdb))
	return NewCustomerImporter(gdb, zap.NewNop()), gdb
}

func TestImportCSV(t *testing.T) {
	imp, gdb := newTestImporter(t)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"first_name,last_name,phone,email,notes",
		"Kari,Nordmann,+4791234567,kari@example.no,stamkunde",
		"Ola,Hansen,+4798765432,,",
		",Mangler,+4711111111,,",      // missing first_name
		"UtenTelefon,,,x@example.no,", // missing phone
		"Duplikat,,+4791234567,,",     // phone already imported above
	}, "\n")

	result, err := imp.ImportCSV(ctx, "t1", "kunder.csv", strings.NewReader(csvData), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Error, "Missing required fields: first_name or phone")
	assert.Contains(t, result.Errors[1].Error, "Missing required fields")
	assert.Equal(t, 6, result.Errors[2].Row)
	assert.Contains(t, result.Errors[2].Error, "Customer with phone +4791234567 already exists")

	// The valid rows landed with the import source.
	var customers []models.Customer
	require.NoError(t, gdb.Where("tenant_id = ?", "t1").Find(&customers).Error)
	require.Len(t, customers, 2)
	assert.Equal(t, "import", customers[0].Source)

	// The import record tracks the outcome.
	var record models.DataImport
	require.NoError(t, gdb.First(&record, result.ImportID).Error)
	assert.Equal(t, "completed_with_errors", record.Status)
	assert.Equal(t, 2, record.ImportedCount)
	assert.Equal(t, 3, record.FailedCount)
	assert.Contains(t, record.Errors, "already exists")
}

func TestImportCSV_CleanFile(t *testing.T) {
	imp, gdb := newTestImporter(t)

	csvData := "first_name,phone\nKari,+4791234567\n"
	result, err := imp.ImportCSV(context.Background(), "t1", "ok.csv", strings.NewReader(csvData), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Zero(t, result.Failed)

	var record models.DataImport
	require.NoError(t, gdb.First(&record, result.ImportID).Error)
	assert.Equal(t, "completed", record.Status)
}

func TestImportCSV_DuplicateInOtherTenantIsFine(t *testing.T) {
	imp, gdb := newTestImporter(t)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.Customer{
		TenantID: "t2", FirstName: "Kari", Phone: "+4791234567",
	}).Error)

	result, err := imp.ImportCSV(ctx, "t1", "kunder.csv",
		strings.NewReader("first_name,phone\nKari,+4791234567\n"), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported, "duplicate check is per tenant")
	assert.Zero(t, result.Failed)
}
