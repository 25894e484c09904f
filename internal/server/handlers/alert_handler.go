package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/alerts"
)

// AlertHandler serves the home dashboard alerts.
type AlertHandler struct {
	svc    *alerts.Service
	logger *zap.Logger
}

// NewAlertHandler constructs the alert endpoints.
func NewAlertHandler(svc *alerts.Service, logger *zap.Logger) *AlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertHandler{svc: svc, logger: logger}
}

// Dashboard returns the last loaded alerts.
func (h *AlertHandler) Dashboard(c *gin.Context) {
	ok(c, http.StatusOK, h.svc.Dashboard(), nil)
}

// Refresh regenerates and reloads the alerts.
func (h *AlertHandler) Refresh(c *gin.Context) {
	dashboard, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao atualizar alertas")
		return
	}

	var notice *models.Notice
	if n := dashboard.Count(); n > 0 {
		notice = models.Warning("Alertas", strconv.Itoa(n)+" alerta(s) pendente(s).")
	}
	ok(c, http.StatusOK, dashboard, notice)
}

// History lists stored alerts; ?unread=true keeps only the pending ones.
func (h *AlertHandler) History(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	list, err := h.svc.History(c.Request.Context(), unreadOnly)
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar alertas")
		return
	}
	ok(c, http.StatusOK, list, nil)
}

// MarkRead acknowledges one alert and drops it from the dashboard.
func (h *AlertHandler) MarkRead(c *gin.Context) {
	if err := h.svc.Acknowledge(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, err, "Erro ao marcar alerta")
		return
	}
	ok(c, http.StatusOK, h.svc.Dashboard(), nil)
}
