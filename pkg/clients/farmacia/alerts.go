package farmacia

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// ListAlerts returns every alert.
func (c *APIClient) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return c.alerts(ctx, "/alertas")
}

// ListUnreadAlerts returns alerts not yet acknowledged.
func (c *APIClient) ListUnreadAlerts(ctx context.Context) ([]models.Alert, error) {
	return c.alerts(ctx, "/alertas/nao-lidos")
}

// ListLowStockAlerts returns low stock alerts.
func (c *APIClient) ListLowStockAlerts(ctx context.Context) ([]models.Alert, error) {
	return c.alerts(ctx, "/alertas/estoque-baixo")
}

// ListExpiringAlerts returns alerts for medicines close to expiry.
func (c *APIClient) ListExpiringAlerts(ctx context.Context) ([]models.Alert, error) {
	return c.alerts(ctx, "/alertas/validade-proxima")
}

// ListExpiredAlerts returns alerts for expired medicines.
func (c *APIClient) ListExpiredAlerts(ctx context.Context) ([]models.Alert, error) {
	return c.alerts(ctx, "/alertas/validade-vencida")
}

func (c *APIClient) alerts(ctx context.Context, path string) ([]models.Alert, error) {
	var out []models.Alert
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateAlerts asks the backend to rescan the catalog. The backend answers
// with plain text.
func (c *APIClient) GenerateAlerts(ctx context.Context) (string, error) {
	errBody := new(errorBody)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain, application/json").
		SetBody(struct{}{}).
		SetError(errBody).
		Post("/alertas/gerar")
	if err != nil {
		return "", fmt.Errorf("POST /alertas/gerar: %w", err)
	}
	if err := checkResponse(resp, errBody); err != nil {
		return "", err
	}
	return resp.String(), nil
}

// MarkAlertRead acknowledges an alert.
func (c *APIClient) MarkAlertRead(ctx context.Context, id string) (*models.Alert, error) {
	out := new(models.Alert)
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/alertas/%s/ler", id), struct{}{}, out); err != nil {
		return nil, err
	}
	return out, nil
}
