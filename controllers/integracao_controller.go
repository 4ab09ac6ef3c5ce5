package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
	"github.com/GHASConsulting/nps-growth-lab/utils"
)

// ObterIntegracao devolve a configuração do usuário, criando o registro
// vazio na primeira consulta.
func ObterIntegracao(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var cfg models.IntegracaoConfig
	err := config.DB.Where("usuario_id = ?", u.ID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.IntegracaoConfig{UsuarioID: u.ID}
		if err := config.DB.Create(&cfg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar a configuração"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível carregar a configuração"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// AtualizarIntegracao aplica um patch parcial: campo ausente mantém o valor
// atual, string vazia limpa o campo.
func AtualizarIntegracao(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var patch utils.IntegracaoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	if err := utils.ValidarPatch(&patch); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var cfg models.IntegracaoConfig
	err := config.DB.Where("usuario_id = ?", u.ID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.IntegracaoConfig{UsuarioID: u.ID}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível carregar a configuração"})
		return
	}

	cfg = utils.MergeIntegracao(cfg, &patch)
	if err := config.DB.Save(&cfg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível salvar a configuração"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
