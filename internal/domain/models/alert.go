package models

// AlertType enumerates backend-generated alert categories.
type AlertType string

const (
	AlertLowStock     AlertType = "ESTOQUE_BAIXO"
	AlertExpiringSoon AlertType = "VALIDADE_PROXIMA"
	AlertExpired      AlertType = "VALIDADE_VENCIDA"
)

// Alert is a dashboard notice kept until acknowledged.
type Alert struct {
	ID           string    `json:"id"`
	MedicineID   string    `json:"medicamentoId"`
	MedicineName string    `json:"medicamentoNome"`
	Type         AlertType `json:"tipo"`
	Message      string    `json:"mensagem"`
	Read         bool      `json:"lido"`
	CreatedAt    string    `json:"createdAt"`
}
