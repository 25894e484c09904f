package farmacia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// Upload is a file attached to a multipart request.
type Upload struct {
	Name   string
	Reader io.Reader
}

// ListCategories returns every category.
func (c *APIClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/categorias", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCategory returns one category.
func (c *APIClient) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	out := new(models.Category)
	if err := c.do(ctx, http.MethodGet, "/categorias/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory registers a new category.
func (c *APIClient) CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	out := new(models.Category)
	if err := c.do(ctx, http.MethodPost, "/categorias", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCategory replaces a category.
func (c *APIClient) UpdateCategory(ctx context.Context, id string, req models.CategoryRequest) (*models.Category, error) {
	out := new(models.Category)
	if err := c.do(ctx, http.MethodPut, "/categorias/"+id, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCategory removes a category.
func (c *APIClient) DeleteCategory(ctx context.Context, id string) (*models.MessageResponse, error) {
	out := new(models.MessageResponse)
	if err := c.do(ctx, http.MethodDelete, "/categorias/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMedicines returns the whole catalog, inactive items included.
func (c *APIClient) ListMedicines(ctx context.Context) ([]models.Medicine, error) {
	var out []models.Medicine
	if err := c.do(ctx, http.MethodGet, "/medicamentos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveMedicines returns the medicines flagged active by the backend.
func (c *APIClient) ListActiveMedicines(ctx context.Context) ([]models.Medicine, error) {
	var out []models.Medicine
	if err := c.do(ctx, http.MethodGet, "/medicamentos/ativos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMedicine returns one medicine.
func (c *APIClient) GetMedicine(ctx context.Context, id string) (*models.Medicine, error) {
	out := new(models.Medicine)
	if err := c.do(ctx, http.MethodGet, "/medicamentos/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMedicine registers a medicine with optional images.
func (c *APIClient) CreateMedicine(ctx context.Context, req models.MedicineRequest, files []Upload) (*models.Medicine, error) {
	return c.sendMedicine(ctx, http.MethodPost, "/medicamentos", req, files)
}

// UpdateMedicine replaces a medicine; images are only touched when files is non-empty.
func (c *APIClient) UpdateMedicine(ctx context.Context, id string, req models.MedicineRequest, files []Upload) (*models.Medicine, error) {
	return c.sendMedicine(ctx, http.MethodPut, "/medicamentos/"+id, req, files)
}

func (c *APIClient) sendMedicine(ctx context.Context, method, path string, req models.MedicineRequest, files []Upload) (*models.Medicine, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode medicine: %w", err)
	}

	out := new(models.Medicine)
	fields := map[string]string{"medicamento": string(payload)}
	if err := c.multipart(ctx, method, path, fields, "files", files, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMedicine removes a medicine.
func (c *APIClient) DeleteMedicine(ctx context.Context, id string) (*models.MessageResponse, error) {
	out := new(models.MessageResponse)
	if err := c.do(ctx, http.MethodDelete, "/medicamentos/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMedicineStatus toggles the active flag.
func (c *APIClient) SetMedicineStatus(ctx context.Context, id string, active bool) (*models.Medicine, error) {
	out := new(models.Medicine)
	errBody := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("ativo", strconv.FormatBool(active)).
		SetResult(out).
		SetError(errBody).
		Patch(fmt.Sprintf("/medicamentos/%s/status", id))
	if err != nil {
		return nil, fmt.Errorf("PATCH medicine status: %w", err)
	}
	if err := checkResponse(resp, errBody); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadMedicineImages appends images to a medicine.
func (c *APIClient) UploadMedicineImages(ctx context.Context, id string, files []Upload) (*models.Medicine, error) {
	out := new(models.Medicine)
	if err := c.multipart(ctx, http.MethodPost, fmt.Sprintf("/medicamentos/%s/imagens", id), nil, "files", files, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveMedicineImages drops every image of a medicine.
func (c *APIClient) RemoveMedicineImages(ctx context.Context, id string) (*models.Medicine, error) {
	out := new(models.Medicine)
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/medicamentos/%s/imagens", id), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// multipart sends form fields plus files under fileParam. resty replaces the
// default JSON content type with the multipart boundary.
func (c *APIClient) multipart(ctx context.Context, method, path string, fields map[string]string, fileParam string, files []Upload, result any) error {
	errBody := new(errorBody)

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(errBody).
		SetMultipartFormData(fields)
	for _, f := range files {
		req.SetFileReader(fileParam, f.Name, f.Reader)
	}
	if len(fields) == 0 && len(files) == 0 {
		return fmt.Errorf("%s %s: empty multipart request", method, path)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return checkResponse(resp, errBody)
}
