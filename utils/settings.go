package utils

import (
	"errors"
	"net/url"
	"strings"

	"github.com/GHASConsulting/nps-growth-lab/models"
)

// IntegracaoPatch é o patch parcial enviado pelo cliente; campo nil = não
// mexe, string vazia = limpa.
type IntegracaoPatch struct {
	WebhookURL    *string `json:"webhook_url"`
	CorPrimaria   *string `json:"cor_primaria"`
	CorSecundaria *string `json:"cor_secundaria"`
	LogoURL       *string `json:"logo_url"`
	AssistantID   *string `json:"assistant_id"`
}

// ValidarPatch checa o que dá para checar sem sair do processo.
func ValidarPatch(p *IntegracaoPatch) error {
	if p == nil {
		return errors.New("patch vazio")
	}
	if p.WebhookURL != nil && *p.WebhookURL != "" {
		u, err := url.Parse(*p.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("webhook_url deve ser uma URL http(s) válida")
		}
	}
	for _, cor := range []*string{p.CorPrimaria, p.CorSecundaria} {
		if cor != nil && *cor != "" && !strings.HasPrefix(*cor, "#") {
			return errors.New("cores devem estar no formato #rrggbb")
		}
	}
	return nil
}

// MergeIntegracao aplica o patch campo a campo sobre a config existente.
func MergeIntegracao(base models.IntegracaoConfig, patch *IntegracaoPatch) models.IntegracaoConfig {
	out := base
	if patch == nil {
		return out
	}
	if patch.WebhookURL != nil {
		out.WebhookURL = *patch.WebhookURL
	}
	if patch.CorPrimaria != nil {
		out.CorPrimaria = *patch.CorPrimaria
	}
	if patch.CorSecundaria != nil {
		out.CorSecundaria = *patch.CorSecundaria
	}
	if patch.LogoURL != nil {
		out.LogoURL = *patch.LogoURL
	}
	if patch.AssistantID != nil {
		out.AssistantID = *patch.AssistantID
	}
	return out
}
