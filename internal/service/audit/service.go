package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	repo "github.com/mamadbah2/farmacia/internal/repository/sheets"
	"github.com/mamadbah2/farmacia/internal/service/access"
)

// ErrSheetsDisabled is returned by PublishToSheet when no spreadsheet is configured.
var ErrSheetsDisabled = errors.New("audit: spreadsheet export is not configured")

// API is the slice of the backend used by the audit viewer.
type API interface {
	ListAuditLogs(ctx context.Context) ([]models.AuditLog, error)
	ExportAuditLogs(ctx context.Context) ([]byte, error)
}

// Operator supplies the logged in operator for role checks.
type Operator interface {
	CurrentUser() (*models.User, error)
}

// Service backs the audit log screen. Every call is restricted to admins.
type Service struct {
	api        API
	operator   Operator
	sheets     repo.Repository
	sheetRange string
	exportDir  string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new audit service. sheets may be nil.
func NewService(api API, operator Operator, sheets repo.Repository, sheetRange, exportDir string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:        api,
		operator:   operator,
		sheets:     sheets,
		sheetRange: sheetRange,
		exportDir:  exportDir,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) authorize() error {
	user, err := s.operator.CurrentUser()
	if err != nil {
		return err
	}
	return access.Require(user, access.ViewAuditLogs)
}

// Recent returns the last entries whose operation, entity, summary or user
// contains term, ignoring case.
func (s *Service) Recent(ctx context.Context, term string) ([]models.AuditLog, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}
	logs, err := s.api.ListAuditLogs(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(logs, term), nil
}

// Filter keeps the entries matching term.
func Filter(logs []models.AuditLog, term string) []models.AuditLog {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return logs
	}
	out := make([]models.AuditLog, 0, len(logs))
	for _, l := range logs {
		for _, field := range []string{l.Operation, l.Entity, l.Summary, l.UserName, l.UserEmail} {
			if strings.Contains(strings.ToLower(field), term) {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// ExportCSV downloads the backend export into logs_auditoria_YYYY-MM-DD.csv
// and returns the file path.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	if err := s.authorize(); err != nil {
		return "", err
	}
	data, err := s.api.ExportAuditLogs(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.exportDir, fmt.Sprintf("logs_auditoria_%s.csv", s.now().Format("2006-01-02")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write audit export: %w", err)
	}

	s.logger.Info("audit logs exported", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

// PublishToSheet appends the exported rows that are not yet in the
// spreadsheet, matching on the first column. It returns how many rows were
// appended.
func (s *Service) PublishToSheet(ctx context.Context) (int, error) {
	if s.sheets == nil {
		return 0, ErrSheetsDisabled
	}
	if err := s.authorize(); err != nil {
		return 0, err
	}

	data, err := s.api.ExportAuditLogs(ctx)
	if err != nil {
		return 0, err
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parse audit export: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	existing, err := s.sheets.ReadRange(ctx, s.sheetRange)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		if len(row) > 0 {
			seen[fmt.Sprint(row[0])] = struct{}{}
		}
	}

	var rows [][]interface{}
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		// The header is written once, on an empty sheet.
		if i == 0 && len(existing) > 0 {
			continue
		}
		if _, dup := seen[record[0]]; dup {
			continue
		}
		seen[record[0]] = struct{}{}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		rows = append(rows, row)
	}

	if err := s.sheets.AppendRows(ctx, s.sheetRange, rows); err != nil {
		return 0, err
	}
	s.logger.Info("audit logs published to sheet", zap.Int("rows", len(rows)))
	return len(rows), nil
}
