package models

const (
	PapelAdmin = "admin"
	PapelUser  = "user"
)

// PapelUsuario: uma linha por usuário, por convenção (não há constraint).
type PapelUsuario struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UsuarioID uint   `gorm:"index;not null" json:"usuario_id"`
	Papel     string `gorm:"size:20;not null;default:'user'" json:"papel"` // admin | user
}

func (PapelUsuario) TableName() string {
	return "user_roles"
}
