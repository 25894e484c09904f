package models

// Customer is a registered pharmacy customer identified by CPF.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	CPF       string `json:"cpf"`
	Phone     string `json:"telefone,omitempty"`
	Email     string `json:"email"`
	Address   string `json:"endereco,omitempty"`
	BirthDate string `json:"dataNascimento"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CustomerRequest is the create/update payload for customers.
type CustomerRequest struct {
	Name      string `json:"nome" binding:"notblank"`
	CPF       string `json:"cpf" binding:"required,cpf"`
	Phone     string `json:"telefone,omitempty"`
	Email     string `json:"email" binding:"required,email"`
	Address   string `json:"endereco,omitempty"`
	BirthDate string `json:"dataNascimento" binding:"notblank"`
}
