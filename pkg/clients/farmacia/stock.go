package farmacia

import (
	"context"
	"net/http"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// StockEntry records incoming units.
func (c *APIClient) StockEntry(ctx context.Context, req models.StockRequest) (*models.StockOperationResponse, error) {
	out := new(models.StockOperationResponse)
	if err := c.do(ctx, http.MethodPost, "/estoque/entrada", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// StockExit records outgoing units that are not part of a sale.
func (c *APIClient) StockExit(ctx context.Context, req models.StockRequest) (*models.StockOperationResponse, error) {
	out := new(models.StockOperationResponse)
	if err := c.do(ctx, http.MethodPost, "/estoque/saida", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStock returns the current stock of a medicine.
func (c *APIClient) GetStock(ctx context.Context, medicineID string) (*models.StockResponse, error) {
	out := new(models.StockResponse)
	if err := c.do(ctx, http.MethodGet, "/estoque/"+medicineID, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
