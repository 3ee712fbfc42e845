package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/apierror"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/service"
)

type BillsHandler struct{ svc service.BillService }

func NewBillsHandler(svc service.BillService) *BillsHandler { return &BillsHandler{svc: svc} }

// billID parses the :id path param, writing the error response on failure.
func billID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid bill id"))
		return 0, false
	}
	return id, true
}

// writeDraftError maps a create/update failure to the right status code:
// aggregated missing-field errors are 422, everything else 400 with the
// service's user-facing message.
func writeDraftError(c *gin.Context, err error) {
	var missing *service.MissingFieldsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}

// List godoc
// @Summary      List bills
// @Description  Paginated bill list proxied from the billing service, filtered by search, status, type and customer.
// @Tags         bills
// @Produce      json
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 20)"
// @Param        search      query string false "Free-text search"
// @Param        status      query int    false "Status code"
// @Param        type        query int    false "Type code"
// @Param        customer_id query int    false "Customer id"
// @Success      200 {object} dto.BillListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bills [get]
func (h *BillsHandler) List(c *gin.Context) {
	var filter dto.BillFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Filters godoc
// @Summary      Bill filter labels
// @Description  Status and type code→label maps for the list view dropdowns.
// @Tags         bills
// @Produce      json
// @Success      200 {object} dto.FiltersResponse
// @Router       /v1/bills/filters [get]
func (h *BillsHandler) Filters(c *gin.Context) {
	resp, err := h.svc.Filters(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Fetch a bill
// @Tags         bills
// @Produce      json
// @Param        id path int true "Bill id"
// @Success      200 {object} model.Bill
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bills/{id} [get]
func (h *BillsHandler) Get(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	bill, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, bill)
}

// Create godoc
// @Summary      Create a bill
// @Description  Validates the draft, derives tax/amount, assembles the payload and forwards it to the billing service. New bills always start Unpaid.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        body body dto.BillDraft true "Bill draft"
// @Success      201 {object} model.Bill
// @Failure      400 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/bills [post]
func (h *BillsHandler) Create(c *gin.Context) {
	var draft dto.BillDraft
	if !bindAndValidate(c, &draft) {
		return
	}
	bill, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		writeDraftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// Update godoc
// @Summary      Update a bill
// @Description  Same pipeline as create; the stored bill type always wins over the draft's (type is immutable after creation).
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id   path int           true "Bill id"
// @Param        body body dto.BillDraft true "Bill draft"
// @Success      200 {object} model.Bill
// @Failure      400 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/bills/{id} [put]
func (h *BillsHandler) Update(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	var draft dto.BillDraft
	if !bindAndValidate(c, &draft) {
		return
	}
	bill, err := h.svc.Update(c.Request.Context(), id, draft)
	if err != nil {
		writeDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

// Delete godoc
// @Summary      Delete a bill
// @Description  Allowed only while the bill is Unpaid.
// @Tags         bills
// @Param        id path int true "Bill id"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bills/{id} [delete]
func (h *BillsHandler) Delete(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// SendEmail godoc
// @Summary      Email a bill to its customer
// @Description  Delivery is performed by the billing service; this endpoint only triggers it.
// @Tags         bills
// @Param        id path int true "Bill id"
// @Success      202
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bills/{id}/send-email [post]
func (h *BillsHandler) SendEmail(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	if err := h.svc.SendEmail(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusAccepted)
}

// DownloadPDF godoc
// @Summary      Download a bill PDF
// @Description  Streams the billing-service-rendered PDF; bytes are cached on disk between requests.
// @Tags         bills
// @Produce      application/pdf
// @Param        id path int true "Bill id"
// @Success      200
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bills/{id}/pdf [get]
func (h *BillsHandler) DownloadPDF(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	data, err := h.svc.RenderPDF(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bill_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", data)
}
