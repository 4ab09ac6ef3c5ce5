package controllers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

/* ========== Análise de indicadores (agrupamento por submissão) ========== */

type respostaDoGrupo struct {
	Pergunta models.Pergunta `json:"pergunta"`
	Resposta models.Resposta `json:"resposta"`
}

type grupoResposta struct {
	RespostaGrupoID string            `json:"resposta_grupo_id"`
	RespondidoEm    time.Time         `json:"respondido_em"`
	NomeRespondente string            `json:"nome_respondente"`
	Empresa         string            `json:"empresa"`
	Respostas       []respostaDoGrupo `json:"respostas"`
}

// AnaliseIndicadores agrupa as respostas de um dia por resposta_grupo_id.
// Dentro de cada grupo, a resposta da pergunta is_nome_responsavel vira o
// nome exibido e a de is_instituicao vira a empresa; só respostas de
// perguntas enviar_para_gpt ficam no grupo, e grupo sem nenhuma delas sai
// da listagem.
func AnaliseIndicadores(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	pesquisaID, err := strconv.Atoi(c.Query("pesquisa_id"))
	if err != nil || pesquisaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pesquisa_id é obrigatório"})
		return
	}
	dia, err := time.Parse("2006-01-02", c.Query("data"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data deve estar no formato AAAA-MM-DD"})
		return
	}

	var p models.Pesquisa
	if err := config.DB.Where("id = ? AND usuario_id = ?", pesquisaID, u.ID).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisa não encontrada"})
		return
	}

	var perguntas []models.Pergunta
	if err := config.DB.Where("pesquisa_id = ?", p.ID).Find(&perguntas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível carregar as perguntas"})
		return
	}

	porID := map[uint]models.Pergunta{}
	totalGpt := 0
	for _, q := range perguntas {
		porID[q.ID] = q
		if q.EnviarParaGpt {
			totalGpt++
		}
	}
	if totalGpt == 0 {
		c.JSON(http.StatusOK, gin.H{
			"grupos":  []grupoResposta{},
			"message": "Nenhuma pergunta marcada para envio ao GPT nesta pesquisa",
		})
		return
	}

	var respostas []models.Resposta
	if err := config.DB.
		Where("pesquisa_id = ? AND respondido_em >= ? AND respondido_em < ?",
			p.ID, dia, dia.Add(24*time.Hour)).
		Find(&respostas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível carregar as respostas"})
		return
	}

	grupos := map[string]*grupoResposta{}
	for _, r := range respostas {
		g, ok := grupos[r.RespostaGrupoID]
		if !ok {
			g = &grupoResposta{
				RespostaGrupoID: r.RespostaGrupoID,
				RespondidoEm:    r.RespondidoEm,
				Respostas:       []respostaDoGrupo{},
			}
			grupos[r.RespostaGrupoID] = g
		}

		q, ok := porID[r.PerguntaID]
		if !ok {
			continue
		}
		if q.IsNomeResponsavel && r.ValorTexto != nil {
			g.NomeRespondente = *r.ValorTexto
		}
		if q.IsInstituicao && r.ValorTexto != nil {
			g.Empresa = *r.ValorTexto
		}
		if q.EnviarParaGpt {
			g.Respostas = append(g.Respostas, respostaDoGrupo{Pergunta: q, Resposta: r})
		}
	}

	filtrados := make([]grupoResposta, 0, len(grupos))
	for _, g := range grupos {
		if len(g.Respostas) > 0 {
			filtrados = append(filtrados, *g)
		}
	}
	sort.Slice(filtrados, func(i, j int) bool {
		return filtrados[i].RespondidoEm.After(filtrados[j].RespondidoEm)
	})

	c.JSON(http.StatusOK, gin.H{
		"grupos":        filtrados,
		"perguntas_gpt": totalGpt,
	})
}

/* ========== Encaminhamento para o webhook de avaliação ========== */

type avaliarReq struct {
	RespostaID uint `json:"resposta_id" binding:"required"`
}

var webhookClient = &http.Client{Timeout: 10 * time.Second}

// SolicitarAvaliacao encaminha uma resposta marcada para o webhook
// configurado pelo usuário. Fire-and-forget: sem retry e sem confirmação de
// entrega; falha de conexão vira 502 para o chamador.
func SolicitarAvaliacao(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var req avaliarReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resposta_id é obrigatório"})
		return
	}

	var r models.Resposta
	if err := config.DB.
		Joins("JOIN pesquisas ON pesquisas.id = respostas.pesquisa_id").
		Where("respostas.id = ? AND pesquisas.usuario_id = ?", req.RespostaID, u.ID).
		First(&r).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resposta não encontrada"})
		return
	}

	var q models.Pergunta
	if err := config.DB.First(&q, r.PerguntaID).Error; err != nil || !q.EnviarParaGpt {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resposta não está marcada para avaliação"})
		return
	}

	var cfg models.IntegracaoConfig
	if err := config.DB.Where("usuario_id = ?", u.ID).First(&cfg).Error; err != nil || cfg.WebhookURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Configure o Webhook na aba Integração antes de solicitar avaliação"})
		return
	}

	nome, empresa := dadosDoGrupo(r.RespostaGrupoID, r.PesquisaID)

	payload := gin.H{
		"resposta_id":      r.ID,
		"pergunta_id":      r.PerguntaID,
		"resposta_texto":   FormatarResposta(r),
		"nome_respondente": nome,
		"empresa":          empresa,
		"pesquisa_id":      r.PesquisaID,
	}
	body, _ := json.Marshal(payload)

	resp, err := webhookClient.Post(cfg.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("webhook falhou para resposta %d: %v", r.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao enviar solicitação"})
		return
	}
	resp.Body.Close()

	c.JSON(http.StatusOK, gin.H{"message": "Solicitação enviada para avaliação"})
}

// dadosDoGrupo varre as respostas irmãs do grupo atrás do nome do
// respondente e da instituição.
func dadosDoGrupo(grupoID string, pesquisaID uint) (nome, empresa string) {
	var irmas []models.Resposta
	if err := config.DB.Where("resposta_grupo_id = ?", grupoID).Find(&irmas).Error; err != nil {
		return "", ""
	}
	var perguntas []models.Pergunta
	if err := config.DB.Where("pesquisa_id = ?", pesquisaID).Find(&perguntas).Error; err != nil {
		return "", ""
	}
	porID := map[uint]models.Pergunta{}
	for _, q := range perguntas {
		porID[q.ID] = q
	}
	for _, r := range irmas {
		q, ok := porID[r.PerguntaID]
		if !ok || r.ValorTexto == nil {
			continue
		}
		if q.IsNomeResponsavel {
			nome = *r.ValorTexto
		}
		if q.IsInstituicao {
			empresa = *r.ValorTexto
		}
	}
	return nome, empresa
}

// FormatarResposta devolve o valor preenchido como texto, seja qual for o
// slot da resposta.
func FormatarResposta(r models.Resposta) string {
	if r.ValorTexto != nil {
		return *r.ValorTexto
	}
	if r.ValorNumero != nil {
		return strconv.Itoa(*r.ValorNumero)
	}
	if r.ValorData != nil {
		return r.ValorData.Format("02/01/2006")
	}
	return "-"
}
