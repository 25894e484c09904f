package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/sales"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
)

// MedicineAPI covers the medicine screens.
type MedicineAPI interface {
	ListMedicines(ctx context.Context) ([]models.Medicine, error)
	GetMedicine(ctx context.Context, id string) (*models.Medicine, error)
	CreateMedicine(ctx context.Context, req models.MedicineRequest, files []farmacia.Upload) (*models.Medicine, error)
	UpdateMedicine(ctx context.Context, id string, req models.MedicineRequest, files []farmacia.Upload) (*models.Medicine, error)
	SetMedicineStatus(ctx context.Context, id string, active bool) (*models.Medicine, error)
	UploadMedicineImages(ctx context.Context, id string, files []farmacia.Upload) (*models.Medicine, error)
	RemoveMedicineImages(ctx context.Context, id string) (*models.Medicine, error)
	DeleteMedicine(ctx context.Context, id string) (*models.MessageResponse, error)
}

// CategoryAPI covers the category screens.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, req models.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) (*models.MessageResponse, error)
}

// CustomerAPI covers the customer screens.
type CustomerAPI interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, req models.CustomerRequest) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req models.CustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) (*models.MessageResponse, error)
}

// UserAPI covers operator account management.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, req models.UserRequest, avatar *farmacia.Upload) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req models.UserRequest, avatar *farmacia.Upload) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (*models.MessageResponse, error)
}

// SalesHistoryAPI covers the sales history screen.
type SalesHistoryAPI interface {
	ListSales(ctx context.Context) ([]models.Sale, error)
	GetSale(ctx context.Context, id string) (*models.Sale, error)
	ListSalesByCustomer(ctx context.Context, customerID string) ([]models.Sale, error)
	CancelSale(ctx context.Context, id string) (*models.MessageResponse, error)
}

// CatalogAPI is the part of the backend behind the management screens.
type CatalogAPI interface {
	MedicineAPI
	CategoryAPI
	CustomerAPI
	UserAPI
	SalesHistoryAPI
}

// CatalogHandler serves the management screens. Role checks happen in the
// router with Allow.
type CatalogHandler struct {
	api      CatalogAPI
	assetURL string
	logger   *zap.Logger
}

// NewCatalogHandler constructs the management endpoints.
func NewCatalogHandler(api CatalogAPI, assetURL string, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{api: api, assetURL: assetURL, logger: logger}
}

// ListMedicines returns the catalog sorted by name, optionally filtered by ?q=.
func (h *CatalogHandler) ListMedicines(c *gin.Context) {
	medicines, err := h.api.ListMedicines(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar medicamentos")
		return
	}

	term := c.Query("q")
	out := make([]models.Medicine, 0, len(medicines))
	for _, m := range medicines {
		if term == "" || sales.MatchesTerm(m, term) {
			out = append(out, withAssets(h.assetURL, m))
		}
	}
	sales.SortByName(out)
	ok(c, http.StatusOK, out, nil)
}

// GetMedicine returns one medicine.
func (h *CatalogHandler) GetMedicine(c *gin.Context) {
	m, err := h.api.GetMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Medicamento não encontrado")
		return
	}
	ok(c, http.StatusOK, withAssets(h.assetURL, *m), nil)
}

// CreateMedicine registers a medicine from a multipart form: the JSON
// document in "medicamento" and optional images in "files".
func (h *CatalogHandler) CreateMedicine(c *gin.Context) {
	h.saveMedicine(c, "", http.StatusCreated, "Medicamento cadastrado")
}

// UpdateMedicine replaces a medicine. Images are kept unless new ones are sent.
func (h *CatalogHandler) UpdateMedicine(c *gin.Context) {
	h.saveMedicine(c, c.Param("id"), http.StatusOK, "Medicamento atualizado")
}

func (h *CatalogHandler) saveMedicine(c *gin.Context, id string, status int, title string) {
	var req models.MedicineRequest
	if !bindPart(c, "medicamento", &req) {
		return
	}
	files, closeFiles, err := formFiles(c, "files")
	if err != nil {
		badRequest(c, "Não foi possível ler as imagens.")
		return
	}
	defer closeFiles()

	var m *models.Medicine
	if id == "" {
		m, err = h.api.CreateMedicine(c.Request.Context(), req, files)
	} else {
		m, err = h.api.UpdateMedicine(c.Request.Context(), id, req, files)
	}
	if err != nil {
		fail(c, h.logger, err, "Erro ao salvar medicamento")
		return
	}
	ok(c, status, withAssets(h.assetURL, *m), models.Success(title, m.Name))
}

type statusBody struct {
	Active *bool `json:"active" binding:"required"`
}

// SetMedicineStatus activates or deactivates a medicine.
func (h *CatalogHandler) SetMedicineStatus(c *gin.Context) {
	var body statusBody
	if !bindJSON(c, &body) {
		return
	}

	m, err := h.api.SetMedicineStatus(c.Request.Context(), c.Param("id"), *body.Active)
	if err != nil {
		fail(c, h.logger, err, "Erro ao alterar status")
		return
	}
	title := "Medicamento desativado"
	if m.Active {
		title = "Medicamento ativado"
	}
	ok(c, http.StatusOK, withAssets(h.assetURL, *m), models.Success(title, m.Name))
}

// UploadMedicineImages appends the images sent in "files".
func (h *CatalogHandler) UploadMedicineImages(c *gin.Context) {
	files, closeFiles, err := formFiles(c, "files")
	if err != nil || len(files) == 0 {
		closeFiles()
		badRequest(c, "Selecione ao menos uma imagem.")
		return
	}
	defer closeFiles()

	m, err := h.api.UploadMedicineImages(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		fail(c, h.logger, err, "Erro ao enviar imagens")
		return
	}
	ok(c, http.StatusOK, withAssets(h.assetURL, *m), models.Success("Imagens adicionadas", m.Name))
}

// RemoveMedicineImages drops every image of a medicine.
func (h *CatalogHandler) RemoveMedicineImages(c *gin.Context) {
	m, err := h.api.RemoveMedicineImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao remover imagens")
		return
	}
	ok(c, http.StatusOK, withAssets(h.assetURL, *m), models.Success("Imagens removidas", m.Name))
}

// DeleteMedicine removes a medicine.
func (h *CatalogHandler) DeleteMedicine(c *gin.Context) {
	resp, err := h.api.DeleteMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao excluir medicamento")
		return
	}
	ok(c, http.StatusOK, resp, models.Success("Medicamento excluído", resp.Message))
}

// ListCategories returns every category.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.api.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar categorias")
		return
	}
	ok(c, http.StatusOK, categories, nil)
}

// GetCategory returns one category.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.api.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Categoria não encontrada")
		return
	}
	ok(c, http.StatusOK, category, nil)
}

// CreateCategory registers a category.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.api.CreateCategory(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err, "Erro ao salvar categoria")
		return
	}
	ok(c, http.StatusCreated, category, models.Success("Categoria cadastrada", category.Name))
}

// UpdateCategory renames or describes a category.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.api.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, h.logger, err, "Erro ao salvar categoria")
		return
	}
	ok(c, http.StatusOK, category, models.Success("Categoria atualizada", category.Name))
}

// DeleteCategory removes a category.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	resp, err := h.api.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Erro ao excluir categoria")
		return
	}
	ok(c, http.StatusOK, resp, models.Success("Categoria excluída", resp.Message))
}
