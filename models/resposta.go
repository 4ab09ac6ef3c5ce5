package models

import "time"

// Resposta é imutável depois de criada: não existe caminho de update e ela só
// some quando a pesquisa é apagada (cascade). Exatamente um dos slots
// valor_numero / valor_texto / valor_data fica preenchido, conforme o
// tipo_resposta da pergunta.
type Resposta struct {
	ID         uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PesquisaID uint     `gorm:"column:pesquisa_id;index;not null" json:"pesquisa_id"`
	Pesquisa   Pesquisa `gorm:"foreignKey:PesquisaID;constraint:OnDelete:CASCADE" json:"-"`
	PerguntaID uint     `gorm:"column:pergunta_id;index;not null" json:"pergunta_id"`
	Pergunta   Pergunta `gorm:"foreignKey:PerguntaID;constraint:OnDelete:CASCADE" json:"-"`

	// Compartilhado por todas as linhas de uma mesma submissão.
	RespostaGrupoID string `gorm:"column:resposta_grupo_id;size:36;index;not null" json:"resposta_grupo_id"`

	ValorNumero *int       `gorm:"column:valor_numero" json:"valor_numero"`
	ValorTexto  *string    `gorm:"column:valor_texto;type:text" json:"valor_texto"`
	ValorData   *time.Time `gorm:"column:valor_data" json:"valor_data"`

	Canal        string    `gorm:"column:canal;size:50;default:'web'" json:"canal"`
	RespondidoEm time.Time `gorm:"column:respondido_em;autoCreateTime" json:"respondido_em"`
}

func (Resposta) TableName() string {
	return "respostas"
}
