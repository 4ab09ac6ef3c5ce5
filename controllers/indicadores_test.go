package controllers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

func semearGrupo(t *testing.T, p models.Pesquisa, grupo string, valores map[uint]string, quando time.Time) {
	t.Helper()
	for pid := range valores {
		v := valores[pid]
		r := models.Resposta{
			PesquisaID:      p.ID,
			PerguntaID:      pid,
			RespostaGrupoID: grupo,
			ValorTexto:      &v,
			Canal:           "web",
			RespondidoEm:    quando,
		}
		if err := config.DB.Create(&r).Error; err != nil {
			t.Fatalf("semear grupo: %v", err)
		}
	}
}

func TestAnaliseIndicadores(t *testing.T) {
	a := iniciarAmbiente(t)
	dono, token := criarConta(t, "dono@example.com", models.PapelUser)
	p := criarPesquisa(t, dono, "Qualitativa")

	nome := models.Pergunta{PesquisaID: p.ID, Texto: "Seu nome", TipoResposta: models.TipoCampo, Ordem: 1, IsNomeResponsavel: true}
	empresa := models.Pergunta{PesquisaID: p.ID, Texto: "Instituição", TipoResposta: models.TipoCampo, Ordem: 2, IsInstituicao: true}
	opiniao := models.Pergunta{PesquisaID: p.ID, Texto: "O que melhorar?", TipoResposta: models.TipoCampo, Ordem: 3, EnviarParaGpt: true}
	for _, q := range []*models.Pergunta{&nome, &empresa, &opiniao} {
		if err := config.DB.Create(q).Error; err != nil {
			t.Fatalf("criar pergunta: %v", err)
		}
	}

	hoje := time.Now()
	semearGrupo(t, p, "grupo-a", map[uint]string{
		nome.ID:    "Ana",
		empresa.ID: "Hospital Central",
		opiniao.ID: "Mais agilidade no atendimento",
	}, hoje)
	// grupo só com identificação, sem resposta qualitativa: fica fora
	semearGrupo(t, p, "grupo-b", map[uint]string{
		nome.ID: "Beto",
	}, hoje)

	dia := hoje.Format("2006-01-02")

	t.Run("agrupa por submissão e extrai nome e empresa", func(t *testing.T) {
		w := a.chamar(t, http.MethodGet,
			fmt.Sprintf("/api/indicadores/analise?pesquisa_id=%d&data=%s", p.ID, dia), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		body := decodificar(t, w)
		grupos, _ := body["grupos"].([]interface{})
		if len(grupos) != 1 {
			t.Fatalf("%d grupos, esperado 1 (grupo sem resposta qualitativa sai)", len(grupos))
		}
		g := grupos[0].(map[string]interface{})
		if g["nome_respondente"] != "Ana" || g["empresa"] != "Hospital Central" {
			t.Fatalf("identificação errada: %v / %v", g["nome_respondente"], g["empresa"])
		}
		respostas, _ := g["respostas"].([]interface{})
		if len(respostas) != 1 {
			t.Fatalf("%d respostas no grupo, só a qualitativa deveria entrar", len(respostas))
		}
	})

	t.Run("pesquisa sem pergunta qualitativa devolve lista vazia", func(t *testing.T) {
		vazia := criarPesquisa(t, dono, "Só notas")
		criarPergunta(t, vazia, "Nota", models.TipoNumero, 1, true)

		w := a.chamar(t, http.MethodGet,
			fmt.Sprintf("/api/indicadores/analise?pesquisa_id=%d&data=%s", vazia.ID, dia), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		body := decodificar(t, w)
		if grupos, _ := body["grupos"].([]interface{}); len(grupos) != 0 {
			t.Fatalf("grupos = %v, esperado vazio", grupos)
		}
	})
}

func TestSolicitarAvaliacao(t *testing.T) {
	a := iniciarAmbiente(t)
	dono, token := criarConta(t, "dono@example.com", models.PapelUser)
	p := criarPesquisa(t, dono, "Com webhook")

	nome := models.Pergunta{PesquisaID: p.ID, Texto: "Seu nome", TipoResposta: models.TipoCampo, Ordem: 1, IsNomeResponsavel: true}
	opiniao := models.Pergunta{PesquisaID: p.ID, Texto: "Comentário", TipoResposta: models.TipoCampo, Ordem: 2, EnviarParaGpt: true}
	for _, q := range []*models.Pergunta{&nome, &opiniao} {
		if err := config.DB.Create(q).Error; err != nil {
			t.Fatalf("criar pergunta: %v", err)
		}
	}
	semearGrupo(t, p, "grupo-x", map[uint]string{
		nome.ID:    "Carla",
		opiniao.ID: "Atendimento nota dez",
	}, time.Now())

	var alvo models.Resposta
	if err := config.DB.Where("pergunta_id = ?", opiniao.ID).First(&alvo).Error; err != nil {
		t.Fatalf("resposta alvo: %v", err)
	}

	t.Run("sem webhook configurado é 400", func(t *testing.T) {
		w := a.chamar(t, http.MethodPost, "/api/indicadores/avaliar", token,
			map[string]interface{}{"resposta_id": alvo.ID})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, esperado 400", w.Code)
		}
	})

	t.Run("encaminha o payload para o webhook", func(t *testing.T) {
		recebido := make(chan map[string]interface{}, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			var payload map[string]interface{}
			_ = json.Unmarshal(b, &payload)
			recebido <- payload
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		cfg := models.IntegracaoConfig{UsuarioID: dono.ID, WebhookURL: srv.URL}
		if err := config.DB.Create(&cfg).Error; err != nil {
			t.Fatalf("criar config: %v", err)
		}

		w := a.chamar(t, http.MethodPost, "/api/indicadores/avaliar", token,
			map[string]interface{}{"resposta_id": alvo.ID})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}

		select {
		case payload := <-recebido:
			if payload["resposta_texto"] != "Atendimento nota dez" {
				t.Fatalf("resposta_texto = %v", payload["resposta_texto"])
			}
			if payload["nome_respondente"] != "Carla" {
				t.Fatalf("nome_respondente = %v", payload["nome_respondente"])
			}
		case <-time.After(2 * time.Second):
			t.Fatal("webhook nunca foi chamado")
		}
	})

	t.Run("resposta de outro usuário é 404", func(t *testing.T) {
		_, tokenOutro := criarConta(t, "outro@example.com", models.PapelUser)
		w := a.chamar(t, http.MethodPost, "/api/indicadores/avaliar", tokenOutro,
			map[string]interface{}{"resposta_id": alvo.ID})
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, esperado 404", w.Code)
		}
	})
}
