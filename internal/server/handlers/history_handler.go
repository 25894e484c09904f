package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// ListSales returns the sales history.
func (h *CatalogHandler) ListSales(c *gin.Context) {
	list, err := h.api.ListSales(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar vendas")
		return
	}
	ok(c, http.StatusOK, list, nil)
}

// GetSale returns one recorded sale.
func (h *CatalogHandler) GetSale(c *gin.Context) {
	sale, err := h.api.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Venda não encontrada")
		return
	}
	ok(c, http.StatusOK, sale, nil)
}

// ListCustomerSales returns the sales of one customer.
func (h *CatalogHandler) ListCustomerSales(c *gin.Context) {
	list, err := h.api.ListSalesByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar vendas do cliente")
		return
	}
	ok(c, http.StatusOK, list, nil)
}

// CancelSale cancels a completed sale.
func (h *CatalogHandler) CancelSale(c *gin.Context) {
	resp, err := h.api.CancelSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao cancelar venda")
		return
	}
	ok(c, http.StatusOK, resp, models.Warning("Venda cancelada", resp.Message))
}
