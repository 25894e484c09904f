package models

// MovementType distinguishes stock entries from exits.
type MovementType string

const (
	MovementEntry MovementType = "ENTRADA"
	MovementExit  MovementType = "SAIDA"
)

// StockRequest is the payload for both stock entry and exit.
type StockRequest struct {
	MedicineID string `json:"medicamentoId" binding:"notblank"`
	Quantity   int    `json:"quantidade" binding:"gt=0"`
	Reason     string `json:"motivo,omitempty"`
}

// StockResponse reports the current stock of one medicine.
type StockResponse struct {
	MedicineID    string `json:"medicamentoId"`
	MedicineName  string `json:"medicamentoNome"`
	StockQuantity int    `json:"quantidadeEstoque"`
}

// StockOperationResponse is returned after an entry or exit is recorded.
type StockOperationResponse struct {
	Message         string       `json:"mensagem"`
	MedicineID      string       `json:"medicamentoId"`
	MedicineName    string       `json:"medicamentoNome"`
	MovedQuantity   int          `json:"quantidadeMovimentada"`
	CurrentQuantity int          `json:"quantidadeEstoqueAtual"`
	Operation       MovementType `json:"tipoOperacao"`
}
