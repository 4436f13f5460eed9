package usecase

import (
	"context"

	"github.com/Bean0-0/tli-strategy-app/internal/domain/models"
	"github.com/Bean0-0/tli-strategy-app/internal/domain/repository"
	domsvc "github.com/Bean0-0/tli-strategy-app/internal/domain/service"
	"github.com/Bean0-0/tli-strategy-app/internal/extract"
	"github.com/Bean0-0/tli-strategy-app/pkg/logger"
)

// MailIngestor pulls unread alert emails, extracts their content, persists
// the levels and runs the analyzer over every extracted symbol.
type MailIngestor struct {
	mail     domsvc.MailSource
	parser   *extract.Coordinator
	levels   repository.LevelStore
	analyzer *Analyzer
	log      *logger.Logger
}

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	Fetched     int                        `json:"fetched"`
	Processed   int                        `json:"processed"`
	Evaluations []*models.EvaluationRecord `json:"evaluations"`
}

// NewMailIngestor creates a mail ingestor.
func NewMailIngestor(
	mail domsvc.MailSource,
	parser *extract.Coordinator,
	levels repository.LevelStore,
	analyzer *Analyzer,
	log *logger.Logger,
) *MailIngestor {
	return &MailIngestor{mail: mail, parser: parser, levels: levels, analyzer: analyzer, log: log}
}

// Ingest fetches up to max unread messages matching subjectFilter and runs
// the full pipeline on each. A message is only marked read after its levels
// were persisted; per-message failures are logged and skipped.
func (m *MailIngestor) Ingest(ctx context.Context, subjectFilter string, max int) (*IngestReport, error) {
	emails, err := m.mail.FetchUnread(ctx, subjectFilter, max)
	if err != nil {
		return nil, err
	}

	report := &IngestReport{Fetched: len(emails)}
	for _, email := range emails {
		result := m.parser.Parse(ctx, email.Body, email.Images)
		if len(result.Symbols) == 0 {
			m.log.Debug("no symbols in message", logger.Uint("seq", uint(email.ID)), logger.String("subject", email.Subject))
			continue
		}

		if err := m.levels.SaveLevels(ctx, result.Levels); err != nil {
			m.log.Error("level persistence failed", logger.Uint("seq", uint(email.ID)), logger.Error(err))
			continue
		}

		for _, symbol := range result.Symbols {
			sig := ResolveSignal(result, symbol)
			rec, err := m.analyzer.Analyze(ctx, symbol, sig)
			if err != nil {
				m.log.Error("analysis failed", logger.String("symbol", symbol), logger.Error(err))
				continue
			}
			report.Evaluations = append(report.Evaluations, rec)
		}

		if err := m.mail.MarkRead(ctx, email.ID); err != nil {
			m.log.Warn("mark read failed", logger.Uint("seq", uint(email.ID)), logger.Error(err))
		}
		report.Processed++
	}

	m.log.Info("mail ingestion completed",
		logger.Int("fetched", report.Fetched),
		logger.Int("processed", report.Processed))
	return report, nil
}
