package models

import "time"

type Pesquisa struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UsuarioID uint   `gorm:"column:usuario_id;index;not null" json:"usuario_id"`
	Nome      string `gorm:"column:nome;size:255;not null" json:"nome"`
	Descricao string `gorm:"column:descricao;type:text" json:"descricao"`
	// Categoria em texto livre é legado das primeiras versões; categoria_id é
	// o vínculo normalizado.
	Categoria     string     `gorm:"column:categoria;size:100" json:"categoria"`
	CategoriaID   *uint      `gorm:"column:categoria_id" json:"categoria_id"`
	Periodicidade string     `gorm:"column:periodicidade;size:20" json:"periodicidade"` // unica | semanal | mensal | trimestral | semestral | anual
	Ativa         bool       `gorm:"column:ativa;default:true" json:"ativa"`
	CriadaEm      time.Time  `gorm:"column:criada_em;autoCreateTime" json:"criada_em"`
	AtualizadaEm  time.Time  `gorm:"column:atualizada_em;autoUpdateTime" json:"atualizada_em"`
	CategoriaRef  *Categoria `gorm:"foreignKey:CategoriaID;constraint:OnDelete:SET NULL" json:"-"`

	Perguntas []Pergunta `gorm:"foreignKey:PesquisaID" json:"-"`
	Respostas []Resposta `gorm:"foreignKey:PesquisaID" json:"-"`
}

func (Pesquisa) TableName() string {
	return "pesquisas"
}
