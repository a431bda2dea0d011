package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Tipos de documento aceptados (Brasil).
const (
	DocumentCPF  = "cpf"
	DocumentCNPJ = "cnpj"
)

// User representa un usuario dueño de tiendas.
// Email es único; (DocumentType, DocumentNumber) también.
type User struct {
	ID             string
	Name           string // nomeCompleto
	Email          string
	DocumentType   string // cpf | cnpj
	DocumentNumber string
	Address        string
	Role           string    // user | admin
	PasswordHash   string    // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt      time.Time // dataCriacao
}

// IsAdmin indica si el usuario tiene rol admin.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
