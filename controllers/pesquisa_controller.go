package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

/* ========== Gestão de Pesquisas ========== */

type criarPesquisaReq struct {
	Nome          string `json:"nome" binding:"required,min=1"`
	Descricao     string `json:"descricao"`
	Categoria     string `json:"categoria"`
	CategoriaID   *uint  `json:"categoria_id"`
	Periodicidade string `json:"periodicidade"`
}

func CriarPesquisa(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var req criarPesquisaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Nome da pesquisa é obrigatório"})
		return
	}

	// vínculo normalizado: se veio categoria_id, ele precisa ser do usuário
	if req.CategoriaID != nil {
		var cat models.Categoria
		if err := config.DB.Where("id = ? AND usuario_id = ?", *req.CategoriaID, u.ID).
			First(&cat).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria não encontrada"})
			return
		}
		if req.Categoria == "" {
			req.Categoria = cat.Nome
		}
	}

	p := models.Pesquisa{
		UsuarioID:     u.ID,
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		Categoria:     req.Categoria,
		CategoriaID:   req.CategoriaID,
		Periodicidade: req.Periodicidade,
		Ativa:         true,
	}
	if err := config.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar a pesquisa"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func ListarPesquisas(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var pesquisas []models.Pesquisa
	if err := config.DB.
		Where("usuario_id = ?", u.ID).
		Order("criada_em DESC").
		Find(&pesquisas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível listar as pesquisas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pesquisas": pesquisas})
}

func DetalhePesquisa(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	var p models.Pesquisa
	err = config.DB.
		Preload("Perguntas", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, id ASC") }).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisa não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível ler a pesquisa"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pesquisa":  p,
		"perguntas": p.Perguntas,
	})
}

type atualizarPesquisaReq struct {
	Nome          *string `json:"nome"`
	Descricao     *string `json:"descricao"`
	Categoria     *string `json:"categoria"`
	CategoriaID   *uint   `json:"categoria_id"`
	Periodicidade *string `json:"periodicidade"`
}

func AtualizarPesquisa(c *gin.Context) {
	p := c.MustGet(middleware.CtxPesquisa).(models.Pesquisa)

	var req atualizarPesquisaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payload inválido"})
		return
	}

	updates := map[string]interface{}{}
	if req.Nome != nil {
		if *req.Nome == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Nome da pesquisa é obrigatório"})
			return
		}
		updates["nome"] = *req.Nome
	}
	if req.Descricao != nil {
		updates["descricao"] = *req.Descricao
	}
	if req.Categoria != nil {
		updates["categoria"] = *req.Categoria
	}
	if req.CategoriaID != nil {
		// mesmo vínculo da criação: a categoria precisa ser do dono
		var cat models.Categoria
		if err := config.DB.Where("id = ? AND usuario_id = ?", *req.CategoriaID, p.UsuarioID).
			First(&cat).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria não encontrada"})
			return
		}
		updates["categoria_id"] = *req.CategoriaID
	}
	if req.Periodicidade != nil {
		updates["periodicidade"] = *req.Periodicidade
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nada para atualizar"})
		return
	}

	if err := config.DB.Model(&models.Pesquisa{}).
		Where("id = ?", p.ID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Atualização falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

type ativaReq struct {
	Ativa *bool `json:"ativa" binding:"required"`
}

// AlternarAtiva liga/desliga o recebimento de respostas pelo link público.
func AlternarAtiva(c *gin.Context) {
	p := c.MustGet(middleware.CtxPesquisa).(models.Pesquisa)

	var req ativaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Payload inválido"})
		return
	}

	if err := config.DB.Model(&models.Pesquisa{}).
		Where("id = ?", p.ID).
		Update("ativa", *req.Ativa).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Atualização falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ativa": *req.Ativa})
}

// ExcluirPesquisa apaga de vez: respostas e perguntas vão junto.
func ExcluirPesquisa(c *gin.Context) {
	p := c.MustGet(middleware.CtxPesquisa).(models.Pesquisa)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pesquisa_id = ?", p.ID).Delete(&models.Resposta{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pesquisa_id = ?", p.ID).Delete(&models.Pergunta{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Pesquisa{}, p.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Exclusão falhou"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// LinkResposta monta o link público de coleta. Sem token e sem validade: o
// único controle de acesso é a flag ativa.
func LinkResposta(c *gin.Context) {
	p := c.MustGet(middleware.CtxPesquisa).(models.Pesquisa)

	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, c.Request.Host)
	}

	c.JSON(http.StatusOK, gin.H{"link": fmt.Sprintf("%s/responder/%d", base, p.ID)})
}
