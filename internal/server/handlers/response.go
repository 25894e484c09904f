package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/access"
	"github.com/mamadbah2/farmacia/internal/service/audit"
	"github.com/mamadbah2/farmacia/internal/service/sales"
	"github.com/mamadbah2/farmacia/internal/service/session"
	"github.com/mamadbah2/farmacia/internal/service/stock"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
)

// LoginPath is where the console sends operators without a session.
const LoginPath = "/login"

const operatorKey = "operator"

// RequireSession aborts with 401 and a login redirect when nobody is logged in.
func RequireSession(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sess.CurrentUser()
		if err != nil {
			redirectToLogin(c)
			return
		}
		c.Set(operatorKey, user)
		c.Next()
	}
}

// Allow aborts with 403 unless the operator's role permits action. It runs
// after RequireSession.
func Allow(action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.Require(operator(c), action); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"notice": forbiddenNotice()})
			return
		}
		c.Next()
	}
}

func forbiddenNotice() *models.Notice {
	return models.Failure("Acesso negado", "Seu perfil não permite esta operação.")
}

func redirectToLogin(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"redirect": LoginPath,
		"notice":   models.Warning("Sessão expirada", "Faça login novamente para continuar."),
	})
}

func operator(c *gin.Context) *models.User {
	if v, ok := c.Get(operatorKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func ok(c *gin.Context, status int, data any, notice *models.Notice) {
	body := gin.H{"data": data}
	if notice != nil {
		body["notice"] = notice
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, text string) {
	c.JSON(http.StatusBadRequest, gin.H{"notice": models.Failure("Formulário Inválido", text)})
}

// fail maps err to a status and a notice titled title. Backend 401s end the
// request with a login redirect, the session being already cleared.
func fail(c *gin.Context, logger *zap.Logger, err error, title string) {
	var limit *sales.StockLimitError
	var shortage *stock.InsufficientStockError

	status := http.StatusInternalServerError
	notice := models.Failure(title, farmacia.UserMessage(err, ""))

	switch {
	case farmacia.IsUnauthorized(err), errors.Is(err, session.ErrNotAuthenticated):
		redirectToLogin(c)
		return
	case farmacia.IsInvalidCredentials(err):
		status = http.StatusUnauthorized
		notice = models.Failure("Falha no login", "E-mail ou senha inválidos.")
	case errors.Is(err, access.ErrForbidden):
		status = http.StatusForbidden
		notice = forbiddenNotice()
	case errors.Is(err, sales.ErrInvalidCPF):
		status = http.StatusBadRequest
		notice = models.Failure("CPF Inválido", "Informe o CPF no formato 000.000.000-00.")
	case errors.Is(err, sales.ErrCustomerNotFound):
		status = http.StatusNotFound
		notice = models.Warning("Cliente não Encontrado", "Nenhum cliente cadastrado com este CPF.")
	case errors.Is(err, sales.ErrSaleInProgress), errors.Is(err, sales.ErrBusy):
		status = http.StatusConflict
		notice = models.Warning("Venda em andamento", "Conclua ou cancele a venda atual primeiro.")
	case errors.Is(err, sales.ErrNoCustomer):
		status = http.StatusConflict
		notice = models.Warning("Cliente não encontrado", "Identifique o cliente antes de continuar.")
	case errors.Is(err, sales.ErrEmptyCart):
		status = http.StatusBadRequest
		notice = models.Warning("Carrinho Vazio", "Adicione ao menos um medicamento.")
	case errors.Is(err, sales.ErrOutOfStock):
		status = http.StatusConflict
		notice = models.Warning("Sem Estoque", "Este medicamento não está disponível em estoque.")
	case errors.Is(err, sales.ErrNotInCart), errors.Is(err, sales.ErrUnknownMedicine):
		status = http.StatusNotFound
		notice = models.Warning(title, "Medicamento não encontrado.")
	case errors.As(err, &limit):
		status = http.StatusConflict
		notice = stockLimitNotice(limit)
	case errors.As(err, &shortage):
		status = http.StatusConflict
		notice = models.Failure("Estoque Insuficiente",
			fmt.Sprintf("Apenas %d unidades de %s em estoque.", shortage.Available, shortage.MedicineName))
	case errors.Is(err, stock.ErrValidation):
		status = http.StatusBadRequest
		notice = models.Failure("Formulário Inválido", "Selecione o medicamento e informe uma quantidade maior que zero.")
	case errors.Is(err, audit.ErrSheetsDisabled):
		status = http.StatusNotImplemented
		notice = models.Warning(title, "Publicação em planilha não configurada.")
	default:
		var apiErr *farmacia.APIError
		if errors.As(err, &apiErr) {
			status = http.StatusBadGateway
			if apiErr.Status == http.StatusNotFound {
				status = http.StatusNotFound
			}
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(title, zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Warn(title, zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"notice": notice})
}

func stockLimitNotice(limit *sales.StockLimitError) *models.Notice {
	return models.Warning("Estoque Insuficiente",
		fmt.Sprintf("Apenas %d unidades de %s disponíveis.", limit.Available, limit.MedicineName))
}

// assetURL turns a backend relative upload path into an absolute URL.
func assetURL(base, path string) string {
	if path == "" || base == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
