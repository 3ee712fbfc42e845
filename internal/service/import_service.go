package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/gateway"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/repository"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/worker"
)

type ImportService interface {
	Import(ctx context.Context, filename string, raw []byte) (*dto.ImportReport, error)
	Runs(ctx context.Context, limit int) ([]dto.ImportRunResponse, error)
	Template() []byte
}

type importService struct {
	gw         gateway.BillGateway
	runs       repository.ImportRunRepository
	dispatcher *worker.Dispatcher
	defaults   PayloadDefaults
	reportTo   string
}

func NewImportService(
	gw gateway.BillGateway,
	runs repository.ImportRunRepository,
	dispatcher *worker.Dispatcher,
	defaults PayloadDefaults,
	reportTo string,
) ImportService {
	return &importService{gw: gw, runs: runs, dispatcher: dispatcher, defaults: defaults, reportTo: reportTo}
}

// Import runs the whole pipeline: parse → map → sequential submission with
// isolated per-row failure → report. The batch is not transactional: rows
// that succeed stay persisted regardless of sibling failures. Only a parse
// failure (malformed or empty file) aborts before anything is submitted.
func (s *importService) Import(ctx context.Context, filename string, raw []byte) (*dto.ImportReport, error) {
	rows, err := ParseCSVRows(string(raw))
	if err != nil {
		return nil, err
	}

	report := s.run(ctx, rows)

	s.persistRun(ctx, filename, len(rows), report)
	s.enqueueReport(ctx, filename, len(rows), report)

	return report, nil
}

// run submits rows strictly sequentially: each creation call completes before
// the next row starts, so a row's failure never depends on or blocks its
// siblings, and load on the billing service stays bounded. A failed row is
// recorded and the loop continues.
func (s *importService) run(ctx context.Context, rows []CSVRow) *dto.ImportReport {
	report := &dto.ImportReport{Failures: []dto.RowFailure{}}
	for i, row := range rows {
		payload := s.mapRowToPayload(row)
		if _, err := s.gw.CreateBill(ctx, payload); err != nil {
			msg := gatewayFailure(err, msgCreateFailed).Error()
			report.Failures = append(report.Failures, dto.RowFailure{Row: i + 1, Message: msg})
			log.Warn().Int("row", i+1).Err(err).Msg("import_service: row failed")
			continue
		}
		report.Succeeded++
	}
	return report
}

// mapRowToPayload coerces one CSV row into a creation payload. Unparseable
// numeric cells become zero; the foreign keys fall back to the configured
// placeholder IDs because the import file carries no identifier resolution.
func (s *importService) mapRowToPayload(row CSVRow) dto.BillPayload {
	typeCode, err := strconv.Atoi(row.cell(colType))
	if err != nil {
		typeCode = 0
	}

	return dto.BillPayload{
		InvoiceNumber:     row.cell(colInvoiceNumber),
		CustomerID:        s.defaults.CustomerID,
		OrderID:           s.defaults.OrderID,
		CarID:             s.defaults.CarID,
		AdminID:           s.defaults.AdminID,
		Currency:          row.cell(colCurrency),
		Type:              typeCode,
		Status:            int(model.BillStatusUnpaid),
		Subtotal:          parseMoney(row.cell(colSubtotal)),
		Discount:          parseMoney(row.cell(colDiscount)),
		Tax:               parseMoney(row.cell(colTax)),
		Amount:            parseMoney(row.cell(colAmount)),
		ExpectPaymentTime: row.cell(colExpectPaymentTime),
		Describe:          row.cell(colDescribe),
	}
}

func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (s *importService) Runs(ctx context.Context, limit int) ([]dto.ImportRunResponse, error) {
	if limit < 1 {
		limit = 50
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ImportRunResponse, 0, len(runs))
	for _, run := range runs {
		var failures []dto.RowFailure
		if err := json.Unmarshal([]byte(run.Failures), &failures); err != nil {
			failures = nil
		}
		out = append(out, dto.ImportRunResponse{
			ID:        run.ID.String(),
			Filename:  run.Filename,
			TotalRows: run.TotalRows,
			Succeeded: run.Succeeded,
			Failed:    run.Failed,
			Failures:  failures,
			CreatedAt: run.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

// Template returns the downloadable example CSV, including the code legends
// shown to operators.
func (s *importService) Template() []byte {
	var b strings.Builder
	b.WriteString("Invoice Number, Amount, Subtotal, Tax, Discount, Describe, Type, Expect Payment Time, Currency\n")
	b.WriteString("INV-1001, 113.00, 100.00, 13.00, 0.00, Monthly subscription, 2, 2025-01-31 12:00, cad\n")
	b.WriteString("\n")
	b.WriteString("Type: 1=Deposit, 2=Subscribe, 3=Ticket\n")
	b.WriteString("Status: 0=Unpaid, 1=Paid, 3=Refunded, 4=PartRefunded\n")
	return []byte(b.String())
}

// persistRun records the batch outcome locally so past imports stay auditable.
// Best effort: a history write failure never fails the import itself.
func (s *importService) persistRun(ctx context.Context, filename string, total int, report *dto.ImportReport) {
	if s.runs == nil {
		return
	}
	failJSON, err := json.Marshal(report.Failures)
	if err != nil {
		failJSON = []byte("[]")
	}
	run := &model.ImportRun{
		Filename:  filename,
		TotalRows: total,
		Succeeded: report.Succeeded,
		Failed:    len(report.Failures),
		Failures:  string(failJSON),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("import_service: failed to persist run")
	}
}

// enqueueReport mails the batch summary to the operations mailbox, with the
// failed rows attached as CSV. Fire and forget via the worker queue.
func (s *importService) enqueueReport(ctx context.Context, filename string, total int, report *dto.ImportReport) {
	if s.dispatcher == nil || s.reportTo == "" {
		return
	}

	body := fmt.Sprintf(
		"Bill import %q finished.\n\nRows: %d\nSucceeded: %d\nFailed: %d\n",
		filename, total, report.Succeeded, len(report.Failures),
	)

	var attachment []byte
	if len(report.Failures) > 0 {
		var sb strings.Builder
		sb.WriteString("Row, Message\n")
		for _, f := range report.Failures {
			sb.WriteString(fmt.Sprintf("%d, %s\n", f.Row, strings.ReplaceAll(f.Message, ",", ";")))
		}
		attachment = []byte(sb.String())
	}

	payload := worker.ReportEmailPayload{
		ToEmail:        s.reportTo,
		Subject:        fmt.Sprintf("Bill import report: %s", filename),
		Body:           body,
		Attachment:     attachment,
		AttachmentName: "import-failures.csv",
	}
	if err := s.dispatcher.EnqueueImportReport(ctx, payload); err != nil {
		log.Error().Err(err).Msg("import_service: failed to enqueue report email")
	}
}
