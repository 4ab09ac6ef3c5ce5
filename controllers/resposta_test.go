package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"gorm.io/datatypes"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

func TestColetorPublico(t *testing.T) {
	a := iniciarAmbiente(t)
	dono, _ := criarConta(t, "dono@example.com", models.PapelUser)

	p := criarPesquisa(t, dono, "Atendimento")
	nota := criarPergunta(t, p, "De 0 a 10, qual a chance de nos indicar?", models.TipoNumero, 1, true)
	comentario := criarPergunta(t, p, "Quer comentar algo?", models.TipoCampo, 2, false)

	url := fmt.Sprintf("/responder/%d", p.ID)

	t.Run("formulário devolve perguntas em ordem sem exigir login", func(t *testing.T) {
		w := a.chamar(t, http.MethodGet, url, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		body := decodificar(t, w)
		perguntas, _ := body["perguntas"].([]interface{})
		if len(perguntas) != 2 {
			t.Fatalf("%d perguntas, esperado 2", len(perguntas))
		}
		primeira := perguntas[0].(map[string]interface{})
		if primeira["texto"] != nota.Texto {
			t.Fatalf("primeira pergunta fora de ordem: %v", primeira["texto"])
		}
	})

	t.Run("envio grava uma linha por pergunta sob o mesmo grupo", func(t *testing.T) {
		w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
			"respostas": []map[string]interface{}{
				{"pergunta_id": nota.ID, "valor": "9"},
				{"pergunta_id": comentario.ID, "valor": "Tudo ótimo"},
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		body := decodificar(t, w)
		grupo, _ := body["resposta_grupo_id"].(string)
		if grupo == "" {
			t.Fatal("resposta_grupo_id ausente")
		}

		var linhas []models.Resposta
		config.DB.Where("resposta_grupo_id = ?", grupo).Find(&linhas)
		if len(linhas) != 2 {
			t.Fatalf("%d linhas no grupo, esperado 2", len(linhas))
		}
		for _, l := range linhas {
			preenchidos := 0
			if l.ValorNumero != nil {
				preenchidos++
			}
			if l.ValorTexto != nil {
				preenchidos++
			}
			if l.ValorData != nil {
				preenchidos++
			}
			if preenchidos != 1 {
				t.Fatalf("linha %d com %d slots de valor preenchidos, esperado exatamente 1", l.ID, preenchidos)
			}
		}
	})

	t.Run("obrigatória em branco rejeita o envio inteiro", func(t *testing.T) {
		var antes int64
		config.DB.Model(&models.Resposta{}).Count(&antes)

		w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
			"respostas": []map[string]interface{}{
				{"pergunta_id": comentario.ID, "valor": "sem nota"},
			},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, esperado 400", w.Code)
		}

		var depois int64
		config.DB.Model(&models.Resposta{}).Count(&depois)
		if depois != antes {
			t.Fatalf("envio rejeitado gravou %d linhas", depois-antes)
		}
	})

	t.Run("nota fora de 0..10 é rejeitada", func(t *testing.T) {
		a.trocarIP()
		for _, valor := range []string{"11", "-1", "abc"} {
			w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
				"respostas": []map[string]interface{}{
					{"pergunta_id": nota.ID, "valor": valor},
				},
			})
			if w.Code != http.StatusBadRequest {
				t.Fatalf("valor %q respondeu %d, esperado 400", valor, w.Code)
			}
		}
	})

	t.Run("pergunta de outra pesquisa invalida o envio", func(t *testing.T) {
		a.trocarIP()
		outra := criarPesquisa(t, dono, "Outra")
		intrusa := criarPergunta(t, outra, "Intrusa", models.TipoCampo, 1, false)

		w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
			"respostas": []map[string]interface{}{
				{"pergunta_id": nota.ID, "valor": "8"},
				{"pergunta_id": intrusa.ID, "valor": "x"},
			},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, esperado 400", w.Code)
		}
	})
}

func TestColetorTiposDeResposta(t *testing.T) {
	a := iniciarAmbiente(t)
	dono, _ := criarConta(t, "dono@example.com", models.PapelUser)
	p := criarPesquisa(t, dono, "Tipada")

	radio := models.Pergunta{
		PesquisaID:   p.ID,
		Texto:        "Como nos conheceu?",
		TipoResposta: models.TipoRadio,
		Ordem:        1,
		Opcoes:       datatypes.NewJSONSlice([]string{"Indicação", "Internet"}),
	}
	if err := config.DB.Create(&radio).Error; err != nil {
		t.Fatalf("criar pergunta radio: %v", err)
	}
	caixas := models.Pergunta{
		PesquisaID:   p.ID,
		Texto:        "Quais serviços usou?",
		TipoResposta: models.TipoCheckbox,
		Ordem:        2,
		Opcoes:       datatypes.NewJSONSlice([]string{"Suporte", "Consultoria", "Treinamento"}),
	}
	if err := config.DB.Create(&caixas).Error; err != nil {
		t.Fatalf("criar pergunta checkbox: %v", err)
	}
	telefone := criarPergunta(t, p, "Telefone", models.TipoTextoNumerico, 3, false)
	quando := criarPergunta(t, p, "Data da visita", models.TipoData, 4, false)

	url := fmt.Sprintf("/responder/%d", p.ID)

	t.Run("radio fora das opções é rejeitado", func(t *testing.T) {
		w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
			"respostas": []map[string]interface{}{
				{"pergunta_id": radio.ID, "valor": "Televisão"},
			},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, esperado 400", w.Code)
		}
	})

	t.Run("checkbox junta as marcadas em um valor só", func(t *testing.T) {
		w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
			"respostas": []map[string]interface{}{
				{"pergunta_id": caixas.ID, "valores": []string{"Suporte", "Treinamento"}},
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		body := decodificar(t, w)
		var linha models.Resposta
		config.DB.Where("resposta_grupo_id = ?", body["resposta_grupo_id"]).First(&linha)
		if linha.ValorTexto == nil || *linha.ValorTexto != "Suporte, Treinamento" {
			t.Fatalf("valor gravado = %v", linha.ValorTexto)
		}
	})

	t.Run("texto numérico só aceita dígitos", func(t *testing.T) {
		w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
			"respostas": []map[string]interface{}{
				{"pergunta_id": telefone.ID, "valor": "11 98888-7777"},
			},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, esperado 400", w.Code)
		}
	})

	t.Run("data fora do formato é rejeitada", func(t *testing.T) {
		w := a.chamar(t, http.MethodPost, url, "", map[string]interface{}{
			"respostas": []map[string]interface{}{
				{"pergunta_id": quando.ID, "valor": "31/12/2025"},
			},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, esperado 400", w.Code)
		}
	})
}

func TestLimitePorIPNoColetor(t *testing.T) {
	a := iniciarAmbiente(t)
	dono, _ := criarConta(t, "dono@example.com", models.PapelUser)
	p := criarPesquisa(t, dono, "Alvo de burst")
	q := criarPergunta(t, p, "Comentário", models.TipoCampo, 1, false)
	url := fmt.Sprintf("/responder/%d", p.ID)

	corpo := map[string]interface{}{
		"respostas": []map[string]interface{}{
			{"pergunta_id": q.ID, "valor": "ok"},
		},
	}

	limitado := false
	for i := 0; i < 10; i++ {
		w := a.chamar(t, http.MethodPost, url, "", corpo)
		if w.Code == http.StatusTooManyRequests {
			limitado = true
			break
		}
		if w.Code != http.StatusCreated {
			t.Fatalf("envio %d: status = %d: %s", i, w.Code, w.Body.String())
		}
	}
	if !limitado {
		t.Fatal("10 envios seguidos do mesmo IP nunca tomaram 429")
	}
}
