package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/audit"
)

// LogHandler exposes the audit trail to administrators.
type LogHandler struct {
	svc    *audit.Service
	logger *zap.Logger
}

// NewLogHandler constructs the audit endpoints.
func NewLogHandler(svc *audit.Service, logger *zap.Logger) *LogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{svc: svc, logger: logger}
}

// List returns the audit trail filtered by ?q=.
func (h *LogHandler) List(c *gin.Context) {
	logs, err := h.svc.Recent(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar logs")
		return
	}
	ok(c, http.StatusOK, logs, nil)
}

// Export writes the backend CSV export to the export directory.
func (h *LogHandler) Export(c *gin.Context) {
	path, err := h.svc.ExportCSV(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao exportar logs")
		return
	}
	ok(c, http.StatusCreated, gin.H{"path": path}, models.Success("Logs exportados", filepath.Base(path)))
}

// Publish appends the new audit rows to the configured spreadsheet.
func (h *LogHandler) Publish(c *gin.Context) {
	n, err := h.svc.PublishToSheet(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao publicar logs")
		return
	}
	ok(c, http.StatusOK, gin.H{"rows": n}, models.Success("Planilha atualizada", strconv.Itoa(n)+" linha(s) adicionada(s)."))
}
