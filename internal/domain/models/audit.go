package models

// AuditLog is one entry of the backend audit trail.
type AuditLog struct {
	ID         string `json:"id"`
	Operation  string `json:"tipoOperacao"`
	Entity     string `json:"tipoEntidade"`
	EntityID   string `json:"entidadeId"`
	Summary    string `json:"descricao"`
	Details    string `json:"detalhes,omitempty"`
	UserID     string `json:"usuarioId"`
	UserName   string `json:"usuarioNome"`
	UserEmail  string `json:"usuarioEmail"`
	OccurredAt string `json:"dataHora"`
}
