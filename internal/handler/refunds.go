package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/apierror"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/service"
)

type RefundsHandler struct {
	refunds service.RefundService
	bills   service.BillService
}

func NewRefundsHandler(refunds service.RefundService, bills service.BillService) *RefundsHandler {
	return &RefundsHandler{refunds: refunds, bills: bills}
}

// Presets godoc
// @Summary      Quick refund amounts
// @Description  Full, sixty, half and quarter amounts derived from the bill's subtotal. Only the full preset is rounded to two decimals.
// @Tags         refunds
// @Produce      json
// @Param        id path int true "Bill id"
// @Success      200 {object} dto.QuickRefundResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bills/{id}/refund/presets [get]
func (h *RefundsHandler) Presets(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	// The subtotal can be passed directly to spare the round trip when the
	// caller already holds the bill.
	if raw := c.Query("subtotal"); raw != "" {
		subtotal, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid subtotal"))
			return
		}
		c.JSON(http.StatusOK, h.refunds.QuickAmounts(subtotal))
		return
	}
	bill, err := h.bills.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.refunds.QuickAmounts(bill.Subtotal))
}

// Refund godoc
// @Summary      Refund a bill
// @Description  Submits a refund for a Paid or PartiallyRefunded bill. The amount is clamped to the bill's subtotal before submission.
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Param        id   path int               true "Bill id"
// @Param        body body dto.RefundRequest true "Refund request"
// @Success      200 {object} model.Bill
// @Failure      400 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/bills/{id}/refund [post]
func (h *RefundsHandler) Refund(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	var req dto.RefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	bill, err := h.refunds.Submit(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, bill)
}
