package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/gateway"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

func newBillService(gw *stubGateway) BillService {
	defaults := PayloadDefaults{CustomerID: 1, OrderID: 1, CarID: 0, AdminID: 0}
	return NewBillService(gw, nil, defaults, "")
}

func TestBillServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("every new bill starts unpaid", func(t *testing.T) {
		gw := newStubGateway()
		svc := newBillService(gw)

		draft := completeDraft("Deposit")
		draft.Status = intPtr(int(model.BillStatusPaid)) // ignored

		bill, err := svc.Create(ctx, draft)

		require.NoError(t, err)
		require.Len(t, gw.created, 1)
		assert.Equal(t, int(model.BillStatusUnpaid), gw.created[0].Status)
		assert.Equal(t, model.BillStatusUnpaid, bill.Status)
	})

	t.Run("derived fields are recomputed before submission", func(t *testing.T) {
		gw := newStubGateway()
		svc := newBillService(gw)

		draft := completeDraft("Deposit")
		draft.Subtotal = dec("1000")
		draft.Discount = dec("100")
		draft.GST = dec("0.05")
		draft.HST = dec("0.08")
		draft.PST = dec("0")
		// Stale client-side figures must be overwritten.
		draft.Tax = dec("1")
		draft.Amount = dec("2")

		_, err := svc.Create(ctx, draft)

		require.NoError(t, err)
		require.Len(t, gw.created, 1)
		assert.True(t, gw.created[0].Tax.Equal(dec("117.00")), "tax = %s", gw.created[0].Tax)
		assert.True(t, gw.created[0].Amount.Equal(dec("1017.00")), "amount = %s", gw.created[0].Amount)
	})

	t.Run("invalid draft never reaches the gateway", func(t *testing.T) {
		gw := newStubGateway()
		svc := newBillService(gw)

		draft := completeDraft("Ticket")
		draft.Currency = ""
		draft.TicketDate = ""
		draft.TicketTime = ""

		_, err := svc.Create(ctx, draft)

		require.Error(t, err)
		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"Currency", "Ticket Date", "Ticket Time"}, missing.Labels)
		assert.Empty(t, gw.created)
	})

	t.Run("placeholder foreign keys fill missing references", func(t *testing.T) {
		gw := newStubGateway()
		svc := newBillService(gw)

		draft := completeDraft("Deposit")
		draft.CustomerID = 42 // explicit reference is kept
		draft.CarID = 0
		draft.AdminID = 0

		_, err := svc.Create(ctx, draft)

		require.NoError(t, err)
		require.Len(t, gw.created, 1)
		assert.Equal(t, 42, gw.created[0].CustomerID)
		assert.Equal(t, 0, gw.created[0].CarID)
		assert.Equal(t, 0, gw.created[0].AdminID)
	})

	t.Run("gateway failure without detail uses the fixed fallback", func(t *testing.T) {
		gw := newStubGateway()
		gw.createErr = func(int) error { return &gateway.Error{StatusCode: 500} }
		svc := newBillService(gw)

		_, err := svc.Create(ctx, completeDraft("Deposit"))

		require.Error(t, err)
		assert.Equal(t, "Failed to create bill. Please try again.", err.Error())
	})

	t.Run("remote detail is surfaced when available", func(t *testing.T) {
		gw := newStubGateway()
		gw.createErr = func(int) error {
			return &gateway.Error{StatusCode: 422, Detail: "Currency not supported"}
		}
		svc := newBillService(gw)

		_, err := svc.Create(ctx, completeDraft("Deposit"))

		require.Error(t, err)
		assert.Equal(t, "Currency not supported", err.Error())
	})
}

func TestBillServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("stored type wins over the draft type", func(t *testing.T) {
		existing := &model.Bill{
			ID:       1,
			Type:     model.BillTypeSubscription,
			Status:   model.BillStatusUnpaid,
			Subtotal: dec("100"),
		}
		gw := newStubGateway(existing)
		svc := newBillService(gw)

		draft := completeDraft("Ticket") // attempted type change
		_, err := svc.Update(ctx, 1, draft)

		require.NoError(t, err)
		require.Len(t, gw.updated, 1)
		assert.Equal(t, int(model.BillTypeSubscription), gw.updated[0].Type)
	})

	t.Run("missing bill aborts before validation", func(t *testing.T) {
		gw := newStubGateway()
		svc := newBillService(gw)

		_, err := svc.Update(ctx, 99, completeDraft("Deposit"))

		require.Error(t, err)
		assert.Empty(t, gw.updated)
	})
}

func TestBillServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("unpaid bills can be deleted", func(t *testing.T) {
		gw := newStubGateway(&model.Bill{ID: 1, Status: model.BillStatusUnpaid})
		svc := newBillService(gw)

		require.NoError(t, svc.Delete(ctx, 1))
		assert.Equal(t, []int{1}, gw.deleted)
	})

	t.Run("any paid-side status refuses deletion", func(t *testing.T) {
		for _, status := range []model.BillStatus{
			model.BillStatusPaid,
			model.BillStatusFailed,
			model.BillStatusRefunded,
			model.BillStatusPartiallyRefunded,
		} {
			gw := newStubGateway(&model.Bill{ID: 1, Status: status})
			svc := newBillService(gw)

			err := svc.Delete(ctx, 1)

			require.Error(t, err, "status %s", status)
			assert.Contains(t, err.Error(), "only unpaid bills can be deleted")
			assert.Empty(t, gw.deleted, "status %s", status)
		}
	})
}

func TestBillServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults page and limit", func(t *testing.T) {
		gw := newStubGateway(&model.Bill{ID: 1}, &model.Bill{ID: 2})
		svc := newBillService(gw)

		resp, err := svc.List(ctx, dto.BillFilter{})

		require.NoError(t, err)
		assert.Len(t, resp.Data, 2)
		assert.EqualValues(t, 2, resp.Meta.Total)
	})
}

func TestBillServiceRenderPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("caches rendered bytes on disk", func(t *testing.T) {
		gw := newStubGateway(&model.Bill{ID: 5, Status: model.BillStatusPaid})
		svc := NewBillService(gw, nil, PayloadDefaults{}, t.TempDir())

		first, err := svc.RenderPDF(ctx, 5)
		require.NoError(t, err)

		second, err := svc.RenderPDF(ctx, 5)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, gw.rendered, 1, "second download should hit the cache")
	})
}
