package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

type categoriaReq struct {
	Nome  string `json:"nome"`
	IsNPS bool   `json:"is_nps"`
}

func ListarCategorias(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var categorias []models.Categoria
	if err := config.DB.Where("usuario_id = ?", u.ID).Order("nome ASC").Find(&categorias).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível listar as categorias"})
		return
	}
	c.JSON(http.StatusOK, categorias)
}

func CriarCategoria(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var req categoriaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	req.Nome = strings.TrimSpace(req.Nome)
	if req.Nome == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Nome da categoria é obrigatório"})
		return
	}

	cat := models.Categoria{
		UsuarioID: u.ID,
		Nome:      req.Nome,
		IsNPS:     req.IsNPS,
	}
	if err := config.DB.Create(&cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar a categoria"})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// ExcluirCategoria remove a categoria e desvincula as pesquisas que a
// apontavam; as pesquisas em si não são apagadas.
func ExcluirCategoria(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var cat models.Categoria
	if err := config.DB.Where("id = ? AND usuario_id = ?", c.Param("id"), u.ID).First(&cat).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Pesquisa{}).
			Where("categoria_id = ?", cat.ID).
			Update("categoria_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível excluir a categoria"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoria excluída"})
}
