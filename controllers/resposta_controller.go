package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

/* ========== Coletor público: /responder/:id ========== */

// FormularioPublico devolve a pesquisa ativa com as perguntas em ordem. Uma
// pesquisa desativada é indistinguível de uma inexistente para o respondente.
func FormularioPublico(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	var p models.Pesquisa
	if err := config.DB.
		Where("id = ? AND ativa = ?", id, true).
		Preload("Perguntas", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, id ASC") }).
		First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisa não encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pesquisa": gin.H{
			"id":        p.ID,
			"nome":      p.Nome,
			"descricao": p.Descricao,
			"categoria": p.Categoria,
		},
		"perguntas": p.Perguntas,
	})
}

type respostaItemReq struct {
	PerguntaID uint     `json:"pergunta_id" binding:"required"`
	Valor      string   `json:"valor"`   // numero, campo, texto_numerico, data, radio
	Valores    []string `json:"valores"` // checkbox
}

type enviarRespostasReq struct {
	Canal     string            `json:"canal"`
	Respostas []respostaItemReq `json:"respostas"`
}

// EnviarRespostas valida pergunta a pergunta e grava uma linha por pergunta
// respondida, todas com o mesmo resposta_grupo_id, numa transação única:
// falhou, nada é escrito e o respondente pode reenviar (gerando grupo novo).
func EnviarRespostas(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	var p models.Pesquisa
	if err := config.DB.Where("id = ? AND ativa = ?", id, true).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisa não encontrada"})
		return
	}

	var req enviarRespostasReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados enviados inválidos"})
		return
	}
	if req.Canal == "" {
		req.Canal = "web"
	}

	var perguntas []models.Pergunta
	if err := config.DB.
		Where("pesquisa_id = ?", p.ID).
		Order("ordem ASC, id ASC").
		Find(&perguntas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível carregar as perguntas"})
		return
	}

	porPergunta := map[uint]respostaItemReq{}
	for _, item := range req.Respostas {
		porPergunta[item.PerguntaID] = item
	}
	// resposta para pergunta de outra pesquisa invalida o envio inteiro
	conhecidas := map[uint]bool{}
	for _, q := range perguntas {
		conhecidas[q.ID] = true
	}
	for pid := range porPergunta {
		if !conhecidas[pid] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Pergunta %d não pertence a esta pesquisa", pid)})
			return
		}
	}

	grupoID := uuid.NewString()
	agora := time.Now()
	linhas := make([]models.Resposta, 0, len(perguntas))

	for _, q := range perguntas {
		item, respondida := porPergunta[q.ID]
		if respondida {
			respondida = strings.TrimSpace(item.Valor) != "" || len(item.Valores) > 0
		}

		if !respondida {
			if q.Obrigatoria {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("A pergunta %q é obrigatória", q.Texto)})
				return
			}
			continue
		}

		linha := models.Resposta{
			PesquisaID:      p.ID,
			PerguntaID:      q.ID,
			RespostaGrupoID: grupoID,
			Canal:           req.Canal,
			RespondidoEm:    agora,
		}

		switch q.TipoResposta {
		case models.TipoNumero:
			n, err := strconv.Atoi(strings.TrimSpace(item.Valor))
			if err != nil || n < 0 || n > 10 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("A nota da pergunta %q deve ser um inteiro de 0 a 10", q.Texto)})
				return
			}
			linha.ValorNumero = &n

		case models.TipoTextoNumerico:
			v := strings.TrimSpace(item.Valor)
			for _, r := range v {
				if r < '0' || r > '9' {
					c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("A pergunta %q aceita apenas dígitos", q.Texto)})
					return
				}
			}
			linha.ValorTexto = &v

		case models.TipoData:
			t, err := time.Parse("2006-01-02", strings.TrimSpace(item.Valor))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("A data da pergunta %q deve estar no formato AAAA-MM-DD", q.Texto)})
				return
			}
			linha.ValorData = &t

		case models.TipoRadio:
			v := strings.TrimSpace(item.Valor)
			if len(q.Opcoes) > 0 && !contemOpcao(q.Opcoes, v) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Opção inválida para a pergunta %q", q.Texto)})
				return
			}
			linha.ValorTexto = &v

		case models.TipoCheckbox:
			if len(item.Valores) == 0 {
				// valor solto em pergunta de múltipla escolha não conta
				if q.Obrigatoria {
					c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("A pergunta %q é obrigatória", q.Texto)})
					return
				}
				continue
			}
			for _, v := range item.Valores {
				if len(q.Opcoes) > 0 && !contemOpcao(q.Opcoes, v) {
					c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Opção inválida para a pergunta %q", q.Texto)})
					return
				}
			}
			v := strings.Join(item.Valores, ", ")
			linha.ValorTexto = &v

		default: // campo
			v := item.Valor
			linha.ValorTexto = &v
		}

		linhas = append(linhas, linha)
	}

	if len(linhas) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhuma resposta para enviar"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&linhas).Error
	}); err != nil {
		log.Printf("erro ao gravar respostas da pesquisa %d: %v", p.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível gravar as respostas"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Respostas registradas com sucesso",
		"resposta_grupo_id": grupoID,
	})
}

func contemOpcao(opcoes []string, v string) bool {
	for _, o := range opcoes {
		if o == v {
			return true
		}
	}
	return false
}
