package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/models"
)

// RowError reports one failed row; the import keeps going past failures.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type Result struct {
	ImportID uint       `json:"import_id"`
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

type CustomerImporter struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCustomerImporter(db *gorm.DB, log *zap.Logger) *CustomerImporter {
	return &CustomerImporter{db: db, log: log}
}

// ImportCSV reads a customer CSV with a header row. Required columns are
// first_name and phone; a duplicate phone within the tenant fails that row
// only.
func (ci *CustomerImporter) ImportCSV(
	ctx context.Context,
	tenantID string,
	fileName string,
	r io.Reader,
	importedBy uint,
) (*Result, error) {

	record := models.DataImport{
		TenantID:   tenantID,
		ImportType: "customers",
		FileName:   fileName,
		Status:     "in_progress",
		ImportedBy: importedBy,
	}
	if err := ci.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		ci.finish(ctx, &record, 0, 0, nil, "failed")
		return nil, err
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	result := &Result{ImportID: record.ID}
	rowNum := 1 // header is row 1

	for {
		rowNum++
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row:   rowNum,
				Error: err.Error(),
			})
			continue
		}

		get := func(name string) string {
			idx, ok := col[name]
			if !ok || idx >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[idx])
		}

		firstName := get("first_name")
		phone := get("phone")

		if firstName == "" || phone == "" {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row:   rowNum,
				Error: "Missing required fields: first_name or phone",
			})
			continue
		}

		var count int64
		if err := ci.db.WithContext(ctx).
			Model(&models.Customer{}).
			Where("tenant_id = ? AND phone = ?", tenantID, phone).
			Count(&count).Error; err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}
		if count > 0 {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row:   rowNum,
				Error: fmt.Sprintf("Customer with phone %s already exists", phone),
			})
			continue
		}

		customer := models.Customer{
			TenantID:  tenantID,
			FirstName: firstName,
			LastName:  get("last_name"),
			Phone:     phone,
			Email:     get("email"),
			Notes:     get("notes"),
			Source:    "import",
		}

		if err := ci.db.WithContext(ctx).Create(&customer).Error; err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}

		result.Imported++
	}

	status := "completed"
	if result.Failed > 0 {
		status = "completed_with_errors"
	}
	ci.finish(ctx, &record, result.Imported, result.Failed, result.Errors, status)

	ci.log.Info("customer import finished",
		zap.String("tenant_id", tenantID),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

func (ci *CustomerImporter) finish(
	ctx context.Context,
	record *models.DataImport,
	imported int,
	failed int,
	errs []RowError,
	status string,
) {
	var errJSON string
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	record.ImportedCount = imported
	record.FailedCount = failed
	record.Errors = errJSON
	record.Status = status
	ci.db.WithContext(ctx).Save(record)
}
