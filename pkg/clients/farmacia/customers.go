package farmacia

import (
	"context"
	"net/http"
	"strings"
	"unicode"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// ListCustomers returns every customer.
func (c *APIClient) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := c.do(ctx, http.MethodGet, "/clientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCustomer returns one customer.
func (c *APIClient) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	out := new(models.Customer)
	if err := c.do(ctx, http.MethodGet, "/clientes/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindCustomerByCPF scans the customer list for a matching CPF, comparing
// digits only. It returns nil without error when nobody matches.
func (c *APIClient) FindCustomerByCPF(ctx context.Context, cpf string) (*models.Customer, error) {
	want := digits(cpf)
	if want == "" {
		return nil, nil
	}

	customers, err := c.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if digits(customers[i].CPF) == want {
			return &customers[i], nil
		}
	}
	return nil, nil
}

// CreateCustomer registers a customer.
func (c *APIClient) CreateCustomer(ctx context.Context, req models.CustomerRequest) (*models.Customer, error) {
	out := new(models.Customer)
	if err := c.do(ctx, http.MethodPost, "/clientes", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCustomer replaces a customer.
func (c *APIClient) UpdateCustomer(ctx context.Context, id string, req models.CustomerRequest) (*models.Customer, error) {
	out := new(models.Customer)
	if err := c.do(ctx, http.MethodPut, "/clientes/"+id, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCustomer removes a customer.
func (c *APIClient) DeleteCustomer(ctx context.Context, id string) (*models.MessageResponse, error) {
	out := new(models.MessageResponse)
	if err := c.do(ctx, http.MethodDelete, "/clientes/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
