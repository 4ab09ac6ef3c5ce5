package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

const (
	CtxPesquisa = "pesquisaObj"
	CtxPergunta = "perguntaObj"
)

// CheckPesquisaOwner carrega a pesquisa do :id no context e garante que o
// usuário autenticado é o dono.
func CheckPesquisaOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.Usuario)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
			return
		}

		var p models.Pesquisa
		if e := config.DB.First(&p, id).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Pesquisa não encontrada"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível ler a pesquisa"})
			return
		}

		if p.UsuarioID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Você não tem permissão sobre esta pesquisa"})
			return
		}

		c.Set(CtxPesquisa, p)
		c.Next()
	}
}

// CheckPerguntaOwner: igual ao CheckPesquisaOwner, mas resolvendo da
// pergunta para a pesquisa dona.
func CheckPerguntaOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.Usuario)

		qid, err := strconv.Atoi(c.Param("id"))
		if err != nil || qid <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
			return
		}

		var q models.Pergunta
		if e := config.DB.First(&q, qid).Error; e != nil {
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Pergunta não encontrada"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível ler a pergunta"})
			return
		}

		var p models.Pesquisa
		if e := config.DB.Select("id, usuario_id").First(&p, q.PesquisaID).Error; e != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Pesquisa não encontrada"})
			return
		}
		if p.UsuarioID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Você não tem permissão sobre esta pergunta"})
			return
		}

		c.Set(CtxPergunta, q)
		c.Next()
	}
}
