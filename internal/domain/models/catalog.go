package models

// Category groups medicines in the catalog.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// CategoryRequest is the create/update payload for categories.
type CategoryRequest struct {
	Name        string `json:"nome" binding:"notblank"`
	Description string `json:"descricao,omitempty"`
}

// Medicine is a sellable catalog item.
type Medicine struct {
	ID            string    `json:"id"`
	Name          string    `json:"nome"`
	Description   string    `json:"descricao,omitempty"`
	Price         float64   `json:"preco"`
	StockQuantity int       `json:"quantidadeEstoque"`
	Expiry        string    `json:"validade,omitempty"` // ISO or dd/mm/yyyy, as sent by the backend
	Active        bool      `json:"ativo"`
	Category      *Category `json:"categoria,omitempty"`
	Images        []string  `json:"imagens,omitempty"`
	CreatedAt     string    `json:"createdAt,omitempty"`
}

// CategoryName returns the category name or an empty string.
func (m Medicine) CategoryName() string {
	if m.Category == nil {
		return ""
	}
	return m.Category.Name
}

// MedicineRequest is the JSON part of the multipart create/update payload.
type MedicineRequest struct {
	Name          string  `json:"nome" binding:"notblank"`
	Description   string  `json:"descricao,omitempty"`
	Price         float64 `json:"preco" binding:"gt=0"`
	StockQuantity int     `json:"quantidadeEstoque" binding:"min=0"`
	Expiry        string  `json:"validade,omitempty"`
	Active        *bool   `json:"ativo,omitempty"`
	CategoryID    string  `json:"categoriaId,omitempty"`
}

// MessageResponse is the generic acknowledgement body used by the backend.
type MessageResponse struct {
	Message string `json:"mensagem"`
	ID      string `json:"id,omitempty"`
}
