package farmacia

import (
	"context"
	"net/http"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// ListSales returns every sale.
func (c *APIClient) ListSales(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	if err := c.do(ctx, http.MethodGet, "/vendas", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSale returns one sale.
func (c *APIClient) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	out := new(models.Sale)
	if err := c.do(ctx, http.MethodGet, "/vendas/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSalesByCustomer returns the sales of one customer.
func (c *APIClient) ListSalesByCustomer(ctx context.Context, customerID string) ([]models.Sale, error) {
	var out []models.Sale
	if err := c.do(ctx, http.MethodGet, "/vendas/cliente/"+customerID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSale submits a cart as one atomic sale.
func (c *APIClient) CreateSale(ctx context.Context, req models.SaleRequest) (*models.Sale, error) {
	out := new(models.Sale)
	if err := c.do(ctx, http.MethodPost, "/vendas", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelSale cancels a persisted sale.
func (c *APIClient) CancelSale(ctx context.Context, id string) (*models.MessageResponse, error) {
	out := new(models.MessageResponse)
	if err := c.do(ctx, http.MethodPost, "/vendas/"+id+"/cancelar", struct{}{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordCancelledSale stores an abandoned cart as a cancelled sale.
func (c *APIClient) RecordCancelledSale(ctx context.Context, req models.SaleRequest) (*models.Sale, error) {
	out := new(models.Sale)
	if err := c.do(ctx, http.MethodPost, "/vendas/cancelada", req, out); err != nil {
		return nil, err
	}
	return out, nil
}
