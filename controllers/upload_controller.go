package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
	"github.com/GHASConsulting/nps-growth-lab/utils"
)

const maxLogoBytes = 2 << 20 // 2 MiB

// UploadLogoHandler recebe a imagem via multipart, sobe para o storage e
// grava a URL pública na configuração de integração do usuário.
func UploadLogoHandler(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo não enviado"})
		return
	}
	if fh.Size > maxLogoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Imagem deve ter no máximo 2MB"})
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Apenas imagens são aceitas"})
		return
	}

	url, err := utils.UploadLogo(fh, uuid.NewString())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao enviar a imagem"})
		return
	}

	var cfg models.IntegracaoConfig
	if err := config.DB.Where("usuario_id = ?", u.ID).First(&cfg).Error; err != nil {
		cfg = models.IntegracaoConfig{UsuarioID: u.ID}
	}
	cfg.LogoURL = url
	if err := config.DB.Save(&cfg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível salvar a URL da logo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}
