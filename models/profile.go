package models

import "time"

// Profile guarda os dados de exibição do usuário e a flag que força a troca
// de senha após um reset feito por um administrador.
type Profile struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UsuarioID    uint      `gorm:"uniqueIndex;not null" json:"usuario_id"`
	NomeCompleto string    `gorm:"size:255;not null" json:"nome_completo"`
	TrocarSenha  bool      `gorm:"default:false" json:"trocar_senha"`
	CriadoEm     time.Time `gorm:"autoCreateTime" json:"criado_em"`
	AtualizadoEm time.Time `gorm:"autoUpdateTime" json:"atualizado_em"`
}

func (Profile) TableName() string {
	return "profiles"
}
