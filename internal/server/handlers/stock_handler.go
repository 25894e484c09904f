package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/stock"
)

// StockHandler records stock entries and exits.
type StockHandler struct {
	svc    *stock.Service
	logger *zap.Logger
}

// NewStockHandler constructs the stock endpoints.
func NewStockHandler(svc *stock.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, logger: logger}
}

// Entry records incoming units.
func (h *StockHandler) Entry(c *gin.Context) {
	h.move(c, models.MovementEntry, "Entrada registrada")
}

// Exit records outgoing units.
func (h *StockHandler) Exit(c *gin.Context) {
	h.move(c, models.MovementExit, "Saída registrada")
}

func (h *StockHandler) move(c *gin.Context, kind models.MovementType, title string) {
	var req models.StockRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Move(c.Request.Context(), kind, req)
	if err != nil {
		fail(c, h.logger, err, "Erro ao movimentar estoque")
		return
	}
	ok(c, http.StatusCreated, resp, models.Success(title, resp.Message))
}

// Current returns the stock of one medicine.
func (h *StockHandler) Current(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context(), c.Param("medicineId"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao consultar estoque")
		return
	}
	ok(c, http.StatusOK, resp, nil)
}
