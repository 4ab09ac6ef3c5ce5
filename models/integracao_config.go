package models

import "time"

// IntegracaoConfig guarda por usuário o que as primeiras versões deixavam só
// no navegador: webhook de avaliação, cores da marca, logo e assistente.
type IntegracaoConfig struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UsuarioID     uint      `gorm:"uniqueIndex;not null" json:"usuario_id"`
	WebhookURL    string    `gorm:"column:webhook_url;size:500" json:"webhook_url"`
	CorPrimaria   string    `gorm:"column:cor_primaria;size:20" json:"cor_primaria"`
	CorSecundaria string    `gorm:"column:cor_secundaria;size:20" json:"cor_secundaria"`
	LogoURL       string    `gorm:"column:logo_url;size:500" json:"logo_url"`
	AssistantID   string    `gorm:"column:assistant_id;size:100" json:"assistant_id"`
	AtualizadaEm  time.Time `gorm:"autoUpdateTime" json:"atualizada_em"`
}

func (IntegracaoConfig) TableName() string {
	return "integracao_configs"
}
