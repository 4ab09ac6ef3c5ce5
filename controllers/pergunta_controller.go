package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

/* ========== Perguntas de uma pesquisa ========== */

type adicionarPerguntaReq struct {
	Texto             string   `json:"texto" binding:"required,min=1"`
	TipoResposta      string   `json:"tipo_resposta" binding:"required"`
	Opcoes            []string `json:"opcoes"`
	Obrigatoria       bool     `json:"obrigatoria"`
	IsNomeResponsavel bool     `json:"is_nome_responsavel"`
	IsInstituicao     bool     `json:"is_instituicao"`
	EnviarParaGpt     bool     `json:"enviar_para_gpt"`
}

func AdicionarPergunta(c *gin.Context) {
	p := c.MustGet(middleware.CtxPesquisa).(models.Pesquisa)

	var req adicionarPerguntaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Texto e tipo da pergunta são obrigatórios"})
		return
	}
	if !models.TipoRespostaValido(req.TipoResposta) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Tipo de resposta desconhecido"})
		return
	}
	if (req.TipoResposta == models.TipoRadio || req.TipoResposta == models.TipoCheckbox) && len(req.Opcoes) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Perguntas de escolha precisam de opções"})
		return
	}

	// próxima ordem = COUNT + 1 (sequência densa 1..N)
	var count int64
	if err := config.DB.Model(&models.Pergunta{}).
		Where("pesquisa_id = ?", p.ID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível contar as perguntas"})
		return
	}

	q := models.Pergunta{
		PesquisaID:        p.ID,
		Texto:             req.Texto,
		TipoResposta:      req.TipoResposta,
		Ordem:             int(count) + 1,
		Obrigatoria:       req.Obrigatoria,
		IsNomeResponsavel: req.IsNomeResponsavel,
		IsInstituicao:     req.IsInstituicao,
		EnviarParaGpt:     req.EnviarParaGpt,
	}
	if len(req.Opcoes) > 0 {
		q.Opcoes = datatypes.NewJSONSlice(req.Opcoes)
	}

	if err := config.DB.Create(&q).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível adicionar a pergunta"})
		return
	}
	c.JSON(http.StatusCreated, q)
}

type atualizarPerguntaReq struct {
	Texto             *string   `json:"texto"`
	TipoResposta      *string   `json:"tipo_resposta"`
	Opcoes            *[]string `json:"opcoes"`
	Obrigatoria       *bool     `json:"obrigatoria"`
	IsNomeResponsavel *bool     `json:"is_nome_responsavel"`
	IsInstituicao     *bool     `json:"is_instituicao"`
	EnviarParaGpt     *bool     `json:"enviar_para_gpt"`
}

func AtualizarPergunta(c *gin.Context) {
	q := c.MustGet(middleware.CtxPergunta).(models.Pergunta)

	var req atualizarPerguntaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payload inválido"})
		return
	}

	updates := map[string]interface{}{}
	if req.Texto != nil {
		if *req.Texto == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Texto da pergunta é obrigatório"})
			return
		}
		updates["texto"] = *req.Texto
	}
	if req.TipoResposta != nil {
		if !models.TipoRespostaValido(*req.TipoResposta) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Tipo de resposta desconhecido"})
			return
		}
		updates["tipo_resposta"] = *req.TipoResposta
	}
	if req.Opcoes != nil {
		tipo := q.TipoResposta
		if req.TipoResposta != nil {
			tipo = *req.TipoResposta
		}
		if (tipo == models.TipoRadio || tipo == models.TipoCheckbox) && len(*req.Opcoes) == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Perguntas de escolha precisam de opções"})
			return
		}
		updates["opcoes"] = datatypes.NewJSONSlice(*req.Opcoes)
	}
	if req.Obrigatoria != nil {
		updates["obrigatoria"] = *req.Obrigatoria
	}
	if req.IsNomeResponsavel != nil {
		updates["is_nome_responsavel"] = *req.IsNomeResponsavel
	}
	if req.IsInstituicao != nil {
		updates["is_instituicao"] = *req.IsInstituicao
	}
	if req.EnviarParaGpt != nil {
		updates["enviar_para_gpt"] = *req.EnviarParaGpt
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nada para atualizar"})
		return
	}

	if err := config.DB.Model(&q).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Atualização falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// ExcluirPergunta remove a linha e fecha o buraco na ordem: quem vinha
// depois recua 1, mantendo a sequência densa 1..N.
func ExcluirPergunta(c *gin.Context) {
	q := c.MustGet(middleware.CtxPergunta).(models.Pergunta)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pergunta_id = ?", q.ID).Delete(&models.Resposta{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Pergunta{}, q.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Pergunta{}).
			Where("pesquisa_id = ? AND ordem > ?", q.PesquisaID, q.Ordem).
			Update("ordem", gorm.Expr("ordem - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Exclusão falhou"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type reordenarReq struct {
	Ordem []uint `json:"ordem" binding:"required,min=1,dive,required"`
}

// ReordenarPerguntas regrava a ordem 1..N conforme a permutação enviada.
func ReordenarPerguntas(c *gin.Context) {
	p := c.MustGet(middleware.CtxPesquisa).(models.Pesquisa)

	var req reordenarReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payload inválido"})
		return
	}

	var total int64
	if err := config.DB.Model(&models.Pergunta{}).
		Where("pesquisa_id = ?", p.ID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível validar as perguntas"})
		return
	}

	var pertencem int64
	if err := config.DB.Model(&models.Pergunta{}).
		Where("pesquisa_id = ? AND id IN ?", p.ID, req.Ordem).
		Count(&pertencem).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível validar as perguntas"})
		return
	}
	if pertencem != int64(len(req.Ordem)) || total != int64(len(req.Ordem)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A lista precisa ser uma permutação das perguntas da pesquisa"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for idx, qID := range req.Ordem {
			if err := tx.Model(&models.Pergunta{}).
				Where("id = ? AND pesquisa_id = ?", qID, p.ID).
				Update("ordem", idx+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reordenação falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}
