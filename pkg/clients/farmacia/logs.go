package farmacia

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// ListAuditLogs returns the last 100 audit entries.
func (c *APIClient) ListAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	var out []models.AuditLog
	if err := c.do(ctx, http.MethodGet, "/logs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportAuditLogs downloads the backend CSV export as raw bytes.
func (c *APIClient) ExportAuditLogs(ctx context.Context) ([]byte, error) {
	errBody := new(errorBody)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv, application/octet-stream").
		SetError(errBody).
		Get("/logs/export")
	if err != nil {
		return nil, fmt.Errorf("GET /logs/export: %w", err)
	}
	if err := checkResponse(resp, errBody); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}
