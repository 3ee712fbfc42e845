package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/gateway"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

// Fixed per-action fallback messages, used when the billing service fails
// without a usable detail of its own. The draft is never discarded on
// failure — the caller keeps its state and can retry.
const (
	msgCreateFailed = "Failed to create bill. Please try again."
	msgUpdateFailed = "Failed to update bill. Please try again."
	msgDeleteFailed = "Failed to delete bill. Please try again."
	msgFetchFailed  = "Failed to load bill. Please try again."
	msgListFailed   = "Failed to load bills. Please try again."
	msgEmailFailed  = "Failed to send bill email. Please try again."
	msgPdfFailed    = "Failed to download bill PDF. Please try again."
)

const (
	filtersCacheKey = "billing:filters"
	filtersCacheTTL = 5 * time.Minute
)

type BillService interface {
	List(ctx context.Context, filter dto.BillFilter) (*dto.BillListResponse, error)
	Filters(ctx context.Context) (*dto.FiltersResponse, error)
	Get(ctx context.Context, id int) (*model.Bill, error)
	Create(ctx context.Context, draft dto.BillDraft) (*model.Bill, error)
	Update(ctx context.Context, id int, draft dto.BillDraft) (*model.Bill, error)
	Delete(ctx context.Context, id int) error
	SendEmail(ctx context.Context, id int) error
	RenderPDF(ctx context.Context, id int) ([]byte, error)
}

// PayloadDefaults are the placeholder foreign keys applied when a draft does
// not carry real references.
type PayloadDefaults struct {
	CustomerID int
	OrderID    int
	CarID      int
	AdminID    int
}

type billService struct {
	gw       gateway.BillGateway
	rdb      *redis.Client
	defaults PayloadDefaults
	pdfCache string
}

func NewBillService(gw gateway.BillGateway, rdb *redis.Client, defaults PayloadDefaults, pdfCachePath string) BillService {
	return &billService{gw: gw, rdb: rdb, defaults: defaults, pdfCache: pdfCachePath}
}

// gatewayFailure surfaces the remote detail when the billing service supplied
// one, the fixed per-action fallback otherwise.
func gatewayFailure(err error, fallback string) error {
	var ge *gateway.Error
	if errors.As(err, &ge) && ge.Detail != "" {
		return errors.New(ge.Detail)
	}
	return errors.New(fallback)
}

func (s *billService) List(ctx context.Context, filter dto.BillFilter) (*dto.BillListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	resp, err := s.gw.ListBills(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("bill_service: list failed")
		return nil, gatewayFailure(err, msgListFailed)
	}
	return resp, nil
}

// Filters returns the status/type label maps, cached in Redis. The labels
// change only on billing-service deploys, so a short TTL is plenty.
func (s *billService) Filters(ctx context.Context) (*dto.FiltersResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, filtersCacheKey).Bytes(); err == nil {
			var out dto.FiltersResponse
			if json.Unmarshal(cached, &out) == nil {
				return &out, nil
			}
		}
	}

	resp, err := s.gw.GetFilters(ctx)
	if err != nil {
		log.Error().Err(err).Msg("bill_service: fetch filters failed")
		return nil, gatewayFailure(err, msgListFailed)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, filtersCacheKey, data, filtersCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("bill_service: filters cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *billService) Get(ctx context.Context, id int) (*model.Bill, error) {
	bill, err := s.gw.GetBill(ctx, id)
	if err != nil {
		log.Error().Err(err).Int("bill_id", id).Msg("bill_service: fetch failed")
		return nil, gatewayFailure(err, msgFetchFailed)
	}
	return bill, nil
}

// prepare recomputes the derived fields into the draft, validates it, applies
// placeholder foreign keys, and assembles the wire payload. The recompute
// happens before any read of the draft, so tax/amount can never be observed
// inconsistent with subtotal/discount/rates.
func (s *billService) prepare(draft *dto.BillDraft) (dto.BillPayload, error) {
	comp := ComputeTaxAndAmount(draft.Subtotal, draft.Discount,
		model.TaxBreakdown{GST: draft.GST, HST: draft.HST, PST: draft.PST})
	draft.Discount = comp.Discount
	draft.Tax = comp.Tax
	draft.Amount = comp.Amount

	if missing := ValidateDraft(draft); len(missing) > 0 {
		return dto.BillPayload{}, &MissingFieldsError{Labels: missing}
	}

	if draft.CustomerID == 0 {
		draft.CustomerID = s.defaults.CustomerID
	}
	if draft.OrderID == 0 {
		draft.OrderID = s.defaults.OrderID
	}
	if draft.CarID == 0 {
		draft.CarID = s.defaults.CarID
	}
	if draft.AdminID == 0 {
		draft.AdminID = s.defaults.AdminID
	}

	return AssemblePayload(draft)
}

func (s *billService) Create(ctx context.Context, draft dto.BillDraft) (*model.Bill, error) {
	payload, err := s.prepare(&draft)
	if err != nil {
		return nil, err
	}
	payload.Status = int(model.BillStatusUnpaid) // every bill starts unpaid

	bill, err := s.gw.CreateBill(ctx, payload)
	if err != nil {
		log.Error().Err(err).Int("customer_id", payload.CustomerID).Msg("bill_service: create failed")
		return nil, gatewayFailure(err, msgCreateFailed)
	}
	return bill, nil
}

func (s *billService) Update(ctx context.Context, id int, draft dto.BillDraft) (*model.Bill, error) {
	existing, err := s.gw.GetBill(ctx, id)
	if err != nil {
		return nil, gatewayFailure(err, msgFetchFailed)
	}

	// Type is immutable after creation: whatever the draft says, the stored
	// type wins. The console disables the selector outside create mode, but
	// the API must hold the line too.
	draft.Type = existing.Type.String()

	payload, err := s.prepare(&draft)
	if err != nil {
		return nil, err
	}

	bill, err := s.gw.UpdateBill(ctx, id, payload)
	if err != nil {
		log.Error().Err(err).Int("bill_id", id).Msg("bill_service: update failed")
		return nil, gatewayFailure(err, msgUpdateFailed)
	}
	s.evictPDF(id)
	return bill, nil
}

func (s *billService) Delete(ctx context.Context, id int) error {
	bill, err := s.gw.GetBill(ctx, id)
	if err != nil {
		return gatewayFailure(err, msgFetchFailed)
	}
	if !bill.Status.Deletable() {
		return fmt.Errorf("only unpaid bills can be deleted (current status: %s)", bill.Status)
	}

	if err := s.gw.DeleteBill(ctx, id); err != nil {
		log.Error().Err(err).Int("bill_id", id).Msg("bill_service: delete failed")
		return gatewayFailure(err, msgDeleteFailed)
	}
	s.evictPDF(id)
	return nil
}

func (s *billService) SendEmail(ctx context.Context, id int) error {
	if err := s.gw.SendBillEmail(ctx, id); err != nil {
		log.Error().Err(err).Int("bill_id", id).Msg("bill_service: send email failed")
		return gatewayFailure(err, msgEmailFailed)
	}
	return nil
}

// RenderPDF streams the gateway-rendered PDF, caching the bytes on disk so
// repeat downloads skip the remote call.
func (s *billService) RenderPDF(ctx context.Context, id int) ([]byte, error) {
	path := s.pdfPath(id)
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}

	data, err := s.gw.RenderBillPdf(ctx, id)
	if err != nil {
		log.Error().Err(err).Int("bill_id", id).Msg("bill_service: render pdf failed")
		return nil, gatewayFailure(err, msgPdfFailed)
	}

	if path != "" {
		if err := os.MkdirAll(s.pdfCache, 0755); err == nil {
			if err := os.WriteFile(path, data, 0644); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("bill_service: pdf cache write failed")
			}
		}
	}
	return data, nil
}

func (s *billService) pdfPath(id int) string {
	if s.pdfCache == "" {
		return ""
	}
	return filepath.Join(s.pdfCache, fmt.Sprintf("bill_%d.pdf", id))
}

func (s *billService) evictPDF(id int) {
	if path := s.pdfPath(id); path != "" {
		_ = os.Remove(path)
	}
}
