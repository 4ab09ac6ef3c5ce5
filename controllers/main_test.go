package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/models"
	"github.com/GHASConsulting/nps-growth-lab/routes"
	"github.com/GHASConsulting/nps-growth-lab/utils"
)

// Cada teste ganha um IP próprio para não dividir o rate limiter do coletor
// com os demais.
var proximoIP uint32

type ambiente struct {
	router *gin.Engine
	ip     string
}

func iniciarAmbiente(t *testing.T) *ambiente {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	nome := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", nome)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abrir sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)

	n := atomic.AddUint32(&proximoIP, 1)
	return &ambiente{
		router: r,
		ip:     fmt.Sprintf("10.9.%d.%d:5555", n/250, n%250+1),
	}
}

// trocarIP dá um IP novo ao ambiente, para subtestes que não querem dividir
// o orçamento do rate limiter entre si.
func (a *ambiente) trocarIP() {
	n := atomic.AddUint32(&proximoIP, 1)
	a.ip = fmt.Sprintf("10.9.%d.%d:5555", n/250, n%250+1)
}

func (a *ambiente) chamar(t *testing.T, metodo, caminho, token string, corpo interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if corpo != nil {
		b, err := json.Marshal(corpo)
		if err != nil {
			t.Fatalf("marshal do corpo: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(metodo, caminho, body)
	req.RemoteAddr = a.ip
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodificar(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("resposta não é JSON: %v (%s)", err, w.Body.String())
	}
	return out
}

func criarConta(t *testing.T, email, papel string) (models.Usuario, string) {
	t.Helper()

	hash, err := utils.HashPassword("senha123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.Usuario{Email: email, SenhaHash: hash}
	if err := config.DB.Create(&u).Error; err != nil {
		t.Fatalf("criar usuário: %v", err)
	}
	perfil := models.Profile{UsuarioID: u.ID, NomeCompleto: "Usuário de Teste"}
	if err := config.DB.Create(&perfil).Error; err != nil {
		t.Fatalf("criar perfil: %v", err)
	}
	if err := config.DB.Create(&models.PapelUsuario{UsuarioID: u.ID, Papel: papel}).Error; err != nil {
		t.Fatalf("criar papel: %v", err)
	}

	token, err := utils.GenerateToken(strconv.FormatUint(uint64(u.ID), 10), papel)
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}
	return u, token
}

func criarPesquisa(t *testing.T, dono models.Usuario, nome string) models.Pesquisa {
	t.Helper()
	p := models.Pesquisa{UsuarioID: dono.ID, Nome: nome, Ativa: true}
	if err := config.DB.Create(&p).Error; err != nil {
		t.Fatalf("criar pesquisa: %v", err)
	}
	return p
}

func criarPergunta(t *testing.T, p models.Pesquisa, texto, tipo string, ordem int, obrigatoria bool) models.Pergunta {
	t.Helper()
	q := models.Pergunta{
		PesquisaID:   p.ID,
		Texto:        texto,
		TipoResposta: tipo,
		Ordem:        ordem,
		Obrigatoria:  obrigatoria,
	}
	if err := config.DB.Create(&q).Error; err != nil {
		t.Fatalf("criar pergunta: %v", err)
	}
	return q
}

func ordensDe(t *testing.T, pesquisaID uint) []int {
	t.Helper()
	var perguntas []models.Pergunta
	if err := config.DB.Where("pesquisa_id = ?", pesquisaID).Order("ordem ASC").Find(&perguntas).Error; err != nil {
		t.Fatalf("ler perguntas: %v", err)
	}
	out := make([]int, len(perguntas))
	for i, q := range perguntas {
		out[i] = q.Ordem
	}
	return out
}
