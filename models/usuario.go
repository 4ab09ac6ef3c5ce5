package models

import "time"

type Usuario struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:255;unique;not null" json:"email"`
	SenhaHash string    `gorm:"size:255;not null" json:"-"` // nunca vai no JSON
	CriadoEm  time.Time `gorm:"autoCreateTime" json:"criado_em"`

	Profile   *Profile      `gorm:"foreignKey:UsuarioID" json:"profile,omitempty"`
	Papel     *PapelUsuario `gorm:"foreignKey:UsuarioID" json:"papel,omitempty"`
	Pesquisas []Pesquisa    `gorm:"foreignKey:UsuarioID" json:"-"`
}

func (Usuario) TableName() string {
	return "usuarios"
}
