package models

import "math"

// SaleStatus mirrors the backend sale lifecycle.
type SaleStatus string

const (
	SalePending   SaleStatus = "PENDENTE"
	SaleCompleted SaleStatus = "CONCLUIDA"
	SaleCancelled SaleStatus = "CANCELADA"
)

// SaleItem is one line of a sale submission.
type SaleItem struct {
	MedicineID string `json:"medicamentoId"`
	Quantity   int    `json:"quantidade"`
}

// SaleRequest is the single atomic submission sent to the backend.
type SaleRequest struct {
	CustomerID string     `json:"clienteId"`
	Items      []SaleItem `json:"itens"`
}

// SaleItemResponse is a priced line as persisted by the backend.
type SaleItemResponse struct {
	ID           string  `json:"id"`
	MedicineID   string  `json:"medicamentoId"`
	MedicineName string  `json:"medicamentoNome"`
	Quantity     int     `json:"quantidade"`
	UnitPrice    float64 `json:"precoUnitario"`
	Subtotal     float64 `json:"subtotal"`
}

// Sale is a submitted, backend-persisted transaction.
type Sale struct {
	ID           string             `json:"id"`
	CustomerID   string             `json:"clienteId"`
	CustomerName string             `json:"clienteNome"`
	UserID       string             `json:"usuarioId"`
	UserName     string             `json:"usuarioNome"`
	Status       SaleStatus         `json:"status"`
	Total        float64            `json:"valorTotal"`
	Items        []SaleItemResponse `json:"itens"`
	CreatedAt    string             `json:"createdAt"`
}

// CartItem is a medicine augmented with the quantity placed in the cart.
type CartItem struct {
	Medicine
	QuantityInCart int `json:"quantidadeCarrinho"`
}

// Subtotal returns the line value rounded to cents.
func (c CartItem) Subtotal() float64 {
	return RoundCents(c.Price * float64(c.QuantityInCart))
}

// RoundCents rounds a currency amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
