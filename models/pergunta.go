package models

import "gorm.io/datatypes"

const (
	TipoNumero        = "numero"         // inteiro 0-10 (escala NPS)
	TipoCampo         = "campo"          // texto livre
	TipoTextoNumerico = "texto_numerico" // texto só de dígitos
	TipoData          = "data"
	TipoRadio         = "radio"    // escolha única
	TipoCheckbox      = "checkbox" // escolha múltipla
)

// TipoRespostaValido reporta se o tipo é um dos suportados pelo coletor.
func TipoRespostaValido(t string) bool {
	switch t {
	case TipoNumero, TipoCampo, TipoTextoNumerico, TipoData, TipoRadio, TipoCheckbox:
		return true
	}
	return false
}

type Pergunta struct {
	ID           uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PesquisaID   uint     `gorm:"column:pesquisa_id;index;not null" json:"pesquisa_id"`
	Pesquisa     Pesquisa `gorm:"foreignKey:PesquisaID;constraint:OnDelete:CASCADE" json:"-"`
	Texto        string   `gorm:"column:texto;type:text;not null" json:"texto"`
	TipoResposta string   `gorm:"column:tipo_resposta;size:20;not null" json:"tipo_resposta"`
	// Ordem é sempre uma sequência densa 1..N dentro da pesquisa.
	Ordem  int                         `gorm:"column:ordem;default:0" json:"ordem"`
	Opcoes datatypes.JSONSlice[string] `gorm:"column:opcoes" json:"opcoes"` // só radio/checkbox

	Obrigatoria       bool `gorm:"column:obrigatoria;default:false" json:"obrigatoria"`
	IsNomeResponsavel bool `gorm:"column:is_nome_responsavel;default:false" json:"is_nome_responsavel"`
	IsInstituicao     bool `gorm:"column:is_instituicao;default:false" json:"is_instituicao"`
	EnviarParaGpt     bool `gorm:"column:enviar_para_gpt;default:false" json:"enviar_para_gpt"`

	Respostas []Resposta `gorm:"foreignKey:PerguntaID" json:"-"`
}

func (Pergunta) TableName() string {
	return "perguntas"
}
