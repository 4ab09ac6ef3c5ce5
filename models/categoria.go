package models

import "time"

type Categoria struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UsuarioID    uint      `gorm:"index;not null" json:"usuario_id"`
	Nome         string    `gorm:"size:100;not null" json:"nome"`
	IsNPS        bool      `gorm:"column:is_nps;default:false" json:"is_nps"`
	CriadaEm     time.Time `gorm:"autoCreateTime" json:"criada_em"`
	AtualizadaEm time.Time `gorm:"autoUpdateTime" json:"atualizada_em"`
}

func (Categoria) TableName() string {
	return "categorias"
}
