package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
	"github.com/GHASConsulting/nps-growth-lab/utils"
)

/* ========== Dashboard de indicadores (motor NPS) ========== */

// Dashboard busca as respostas do usuário já filtradas no banco e calcula o
// histograma 0..10 e o score NPS em uma passada. Filtros: pesquisa_id,
// categoria_id, data (dia exato) e texto (canal ou resposta textual).
func Dashboard(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	query := config.DB.Model(&models.Resposta{}).
		Joins("JOIN pesquisas ON pesquisas.id = respostas.pesquisa_id").
		Where("pesquisas.usuario_id = ?", u.ID)

	mostrarNPS := false

	if v := c.Query("pesquisa_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pesquisa_id inválido"})
			return
		}
		query = query.Where("respostas.pesquisa_id = ?", id)

		var p models.Pesquisa
		if err := config.DB.Preload("CategoriaRef").First(&p, id).Error; err == nil {
			mostrarNPS = p.CategoriaRef != nil && p.CategoriaRef.IsNPS
		}
	}

	if v := c.Query("categoria_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "categoria_id inválido"})
			return
		}
		query = query.Where("pesquisas.categoria_id = ?", id)

		var cat models.Categoria
		if err := config.DB.First(&cat, id).Error; err == nil {
			mostrarNPS = cat.IsNPS
		}
	}

	if v := c.Query("data"); v != "" {
		dia, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "data deve estar no formato AAAA-MM-DD"})
			return
		}
		query = query.Where("respostas.respondido_em >= ? AND respostas.respondido_em < ?",
			dia, dia.Add(24*time.Hour))
	}

	if v := c.Query("texto"); v != "" {
		like := "%" + v + "%"
		query = query.Where("respostas.canal LIKE ? OR respostas.valor_texto LIKE ?", like, like)
	}

	var respostas []models.Resposta
	if err := query.Order("respostas.respondido_em DESC").Find(&respostas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível buscar as respostas"})
		return
	}

	notas := make([]*int, 0, len(respostas))
	for _, r := range respostas {
		notas = append(notas, r.ValorNumero)
	}
	resumo := utils.CalcularNPS(notas)

	// histograma no formato do gráfico de barras (nota x quantidade)
	grafico := make([]gin.H, 0, 11)
	for nota, qtd := range resumo.Histograma {
		grafico = append(grafico, gin.H{"nota": nota, "quantidade": qtd})
	}

	c.JSON(http.StatusOK, gin.H{
		"resumo":      resumo,
		"grafico":     grafico,
		"mostrar_nps": mostrarNPS,
		"respostas":   respostas,
	})
}
