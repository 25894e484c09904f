package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/sales"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

func formatBRL(v float64) string {
	return brl.Sprintf("R$ %.2f", v)
}

// SaleHandler drives the point of sale workflow.
type SaleHandler struct {
	workflow *sales.Workflow
	assetURL string
	logger   *zap.Logger
}

// NewSaleHandler constructs the sale endpoints.
func NewSaleHandler(workflow *sales.Workflow, assetURL string, logger *zap.Logger) *SaleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleHandler{workflow: workflow, assetURL: assetURL, logger: logger}
}

// The CPF mask is checked by the workflow so the operator sees "CPF Inválido".
type customerBody struct {
	CPF string `json:"cpf" binding:"required"`
}

type searchBody struct {
	Term string `json:"term"`
}

type addBody struct {
	MedicineID string `json:"medicineId" binding:"notblank"`
}

type quantityBody struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

func (h *SaleHandler) snapshot() sales.Snapshot {
	snap := h.workflow.Snapshot()
	for i := range snap.Items {
		snap.Items[i].Medicine = withAssets(h.assetURL, snap.Items[i].Medicine)
	}
	for i := range snap.Results {
		snap.Results[i] = withAssets(h.assetURL, snap.Results[i])
	}
	return snap
}

// Get returns the sale in progress.
func (h *SaleHandler) Get(c *gin.Context) {
	ok(c, http.StatusOK, h.snapshot(), nil)
}

// IdentifyCustomer starts a sale for the customer with the given CPF. Raw
// digits are masked before validation.
func (h *SaleHandler) IdentifyCustomer(c *gin.Context) {
	var body customerBody
	if !bindJSON(c, &body) {
		return
	}

	customer, err := h.workflow.IdentifyCustomer(c.Request.Context(), sales.FormatCPF(body.CPF))
	if err != nil && (customer == nil || farmacia.IsUnauthorized(err)) {
		fail(c, h.logger, err, "Erro ao buscar cliente")
		return
	}
	if err != nil {
		h.logger.Warn("catalog load failed", zap.String("customer_id", customer.ID), zap.Error(err))
		ok(c, http.StatusOK, h.snapshot(), models.Warning("Erro ao carregar medicamentos", "Cliente identificado, mas o catálogo não pôde ser carregado."))
		return
	}

	ok(c, http.StatusOK, h.snapshot(), models.Success("Cliente encontrado", customer.Name))
}

// Search updates the search term. Results arrive after the debounce period
// and are read back with Get.
func (h *SaleHandler) Search(c *gin.Context) {
	var body searchBody
	if !bindJSON(c, &body) {
		return
	}
	if err := h.workflow.SetSearchTerm(body.Term); err != nil {
		fail(c, h.logger, err, "Erro na busca")
		return
	}
	ok(c, http.StatusAccepted, h.snapshot(), nil)
}

// AddToCart adds one unit of a listed medicine.
func (h *SaleHandler) AddToCart(c *gin.Context) {
	var body addBody
	if !bindJSON(c, &body) {
		return
	}
	h.mutate(c, h.workflow.AddToCartByID(body.MedicineID), "Erro ao adicionar item")
}

// SetQuantity changes the quantity of a cart line. Zero removes it.
func (h *SaleHandler) SetQuantity(c *gin.Context) {
	var body quantityBody
	if !bindJSON(c, &body) {
		return
	}
	h.mutate(c, h.workflow.SetQuantity(c.Param("id"), *body.Quantity), "Erro ao atualizar item")
}

// RemoveFromCart deletes a cart line.
func (h *SaleHandler) RemoveFromCart(c *gin.Context) {
	h.mutate(c, h.workflow.RemoveFromCart(c.Param("id")), "Erro ao remover item")
}

// mutate answers a cart change. A clamped quantity is still a success, with
// a warning.
func (h *SaleHandler) mutate(c *gin.Context, err error, title string) {
	var limit *sales.StockLimitError
	switch {
	case err == nil:
		ok(c, http.StatusOK, h.snapshot(), nil)
	case errors.As(err, &limit):
		ok(c, http.StatusOK, h.snapshot(), stockLimitNotice(limit))
	default:
		fail(c, h.logger, err, title)
	}
}

// Finalize submits the cart as one sale.
func (h *SaleHandler) Finalize(c *gin.Context) {
	sale, err := h.workflow.Finalize(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao finalizar venda")
		return
	}
	ok(c, http.StatusCreated, sale, models.Success("Venda Finalizada!", "Total de "+formatBRL(sale.Total)+"."))
}

// Abandon drops the sale in progress.
func (h *SaleHandler) Abandon(c *gin.Context) {
	recorded, err := h.workflow.Abandon(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao cancelar venda")
		return
	}
	text := "A venda foi descartada."
	if recorded {
		text = "A venda foi registrada como cancelada."
	}
	ok(c, http.StatusOK, h.snapshot(), models.Warning("Venda cancelada", text))
}

func withAssets(base string, m models.Medicine) models.Medicine {
	if len(m.Images) == 0 {
		return m
	}
	images := make([]string, len(m.Images))
	for i, img := range m.Images {
		images[i] = assetURL(base, img)
	}
	m.Images = images
	return m
}
