package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/apierror"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/service"
)

// maxImportSize caps uploaded CSVs at 5 MiB.
const maxImportSize = 5 << 20

type ImportsHandler struct{ svc service.ImportService }

func NewImportsHandler(svc service.ImportService) *ImportsHandler {
	return &ImportsHandler{svc: svc}
}

// Upload godoc
// @Summary      Import bills from CSV
// @Description  Parses the uploaded file and submits each row as an independent bill. Failed rows are reported with their line number; succeeded rows are kept.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Success      200 {object} dto.ImportReport
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bills/import [post]
func (h *ImportsHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file upload"))
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, apierror.New("File too large"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Could not read uploaded file"))
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Could not read uploaded file"))
		return
	}

	report, err := h.svc.Import(c.Request.Context(), fileHeader.Filename, raw)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFile) {
			c.JSON(http.StatusBadRequest, apierror.New("The uploaded file is empty"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, report)
}

// Template godoc
// @Summary      Download the import template
// @Tags         imports
// @Produce      text/csv
// @Success      200
// @Router       /v1/bills/import/template [get]
func (h *ImportsHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="bill_import_template.csv"`)
	c.Data(http.StatusOK, "text/csv", h.svc.Template())
}

// Runs godoc
// @Summary      List past import runs
// @Tags         imports
// @Produce      json
// @Param        limit query int false "Max runs returned (default 50)"
// @Success      200 {array} dto.ImportRunResponse
// @Failure      500 {object} apierror.APIError
// @Router       /v1/bills/import/runs [get]
func (h *ImportsHandler) Runs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.svc.Runs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list import runs"))
		return
	}
	c.JSON(http.StatusOK, runs)
}
