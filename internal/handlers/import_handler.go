package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/httpresp"
	"github.com/salontid/salontid-api/internal/importer"
	"github.com/salontid/salontid-api/internal/models"
)

type ImportHandler struct {
	db       *gorm.DB
	importer *importer.CustomerImporter
}

func NewImportHandler(db *gorm.DB, imp *importer.CustomerImporter) *ImportHandler {
	return &ImportHandler{db: db, importer: imp}
}

// ImportCustomers takes a multipart CSV upload under the "file" field.
func (h *ImportHandler) ImportCustomers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Fil mangler. Last opp en CSV under feltet 'file'.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Kunne ikke lese filen.")
		return
	}
	defer file.Close()

	result, err := h.importer.ImportCSV(
		c.Request.Context(),
		tenantID(c),
		fileHeader.Filename,
		file,
		currentUserID(c),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ImportHandler) ListImports(c *gin.Context) {
	var imports []models.DataImport
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenantID(c)).
		Order("created_at DESC").
		Limit(50).
		Find(&imports).Error; err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, imports)
}
