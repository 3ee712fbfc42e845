package worker

// email_worker.go
// Processes import-report jobs from QueueImportReport: sends the batch
// summary to the operations mailbox via SMTP, with the failed rows attached
// as CSV. Retries with exponential backoff; exhausted jobs land in the DLQ.

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/infra"
)

const emailMaxAttempts = 3

// ReportEmailPayload is the job envelope sent to QueueImportReport.
// Attachment is base64-encoded by encoding/json.
type ReportEmailPayload struct {
	ToEmail        string `json:"to_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Attachment     []byte `json:"attachment,omitempty"`
	AttachmentName string `json:"attachment_name,omitempty"`
}

// ReportEmailWorker sends import-report emails.
type ReportEmailWorker struct {
	mailer *infra.Mailer
}

func NewReportEmailWorker(mailer *infra.Mailer) *ReportEmailWorker {
	return &ReportEmailWorker{mailer: mailer}
}

// Process sends one report email, retrying transient SMTP failures. A job
// that exhausts its attempts is moved to the DLQ for later re-drain;
// priorAttempts keeps the count cumulative across round trips.
func (w *ReportEmailWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage, priorAttempts int) {
	var payload ReportEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := withRetry(ctx, emailMaxAttempts, func(attempt int) error {
		sendErr := w.mailer.SendReport(payload.ToEmail, payload.Subject, payload.Body,
			payload.Attachment, payload.AttachmentName)
		if sendErr != nil {
			log.Warn().Err(sendErr).Int("attempt", attempt+1).Str("to", payload.ToEmail).
				Msg("email_worker: send attempt failed")
		}
		return sendErr
	})
	if err != nil {
		SendToDLQ(ctx, rdb, QueueImportReport, "import_report", raw, err.Error(), priorAttempts+emailMaxAttempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: import report sent")
}
