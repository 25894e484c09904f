package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/sales"
)

// ListCustomers returns every customer.
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	customers, err := h.api.ListCustomers(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar clientes")
		return
	}
	ok(c, http.StatusOK, customers, nil)
}

// GetCustomer returns one customer.
func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	customer, err := h.api.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Cliente não encontrado")
		return
	}
	ok(c, http.StatusOK, customer, nil)
}

// CreateCustomer registers a customer. The CPF is stored masked.
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	req, valid := customerForm(c)
	if !valid {
		return
	}

	customer, err := h.api.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err, "Erro ao salvar cliente")
		return
	}
	ok(c, http.StatusCreated, customer, models.Success("Cliente cadastrado", customer.Name))
}

// UpdateCustomer replaces a customer's record.
func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	req, valid := customerForm(c)
	if !valid {
		return
	}

	customer, err := h.api.UpdateCustomer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, h.logger, err, "Erro ao salvar cliente")
		return
	}
	ok(c, http.StatusOK, customer, models.Success("Cliente atualizado", customer.Name))
}

// DeleteCustomer removes a customer.
func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	resp, err := h.api.DeleteCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao excluir cliente")
		return
	}
	ok(c, http.StatusOK, resp, models.Success("Cliente excluído", resp.Message))
}

func customerForm(c *gin.Context) (models.CustomerRequest, bool) {
	var req models.CustomerRequest
	if !bindJSON(c, &req) {
		return req, false
	}
	req.CPF = sales.FormatCPF(req.CPF)
	return req, true
}
