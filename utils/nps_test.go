package utils

import "testing"

func notas(vs ...int) []*int {
	out := make([]*int, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out
}

func TestCalcularNPS(t *testing.T) {
	t.Run("exemplo de referência", func(t *testing.T) {
		// 3 promotores, 1 neutro, 2 detratores em 6 notas
		r := CalcularNPS(notas(9, 9, 10, 6, 7, 3))
		if r.Promotores != 3 || r.Neutros != 1 || r.Detratores != 2 {
			t.Fatalf("classificação errada: %+v", r)
		}
		if r.Total != 6 {
			t.Fatalf("total = %d, esperado 6", r.Total)
		}
		if r.Score != 17 {
			t.Fatalf("score = %d, esperado 17", r.Score)
		}
	})

	t.Run("sem notas o score é zero", func(t *testing.T) {
		r := CalcularNPS(nil)
		if r.Score != 0 || r.Total != 0 {
			t.Fatalf("esperado zero, veio %+v", r)
		}
		if r.Zona != ZonaAperfeicoamento {
			t.Fatalf("zona = %q", r.Zona)
		}
	})

	t.Run("nota nula fica fora do total", func(t *testing.T) {
		ns := notas(10, 10)
		ns = append(ns, nil, nil, nil)
		r := CalcularNPS(ns)
		if r.Total != 2 {
			t.Fatalf("total = %d, nulos não podem contar", r.Total)
		}
		if r.Score != 100 {
			t.Fatalf("score = %d, esperado 100", r.Score)
		}
	})

	t.Run("nota fora de 0..10 é descartada", func(t *testing.T) {
		ns := notas(5, 11, -1)
		r := CalcularNPS(ns)
		if r.Total != 1 || r.Detratores != 1 {
			t.Fatalf("descartes errados: %+v", r)
		}
	})

	t.Run("histograma cobre todas as notas", func(t *testing.T) {
		r := CalcularNPS(notas(0, 0, 5, 10))
		if r.Histograma[0] != 2 || r.Histograma[5] != 1 || r.Histograma[10] != 1 {
			t.Fatalf("histograma errado: %v", r.Histograma)
		}
	})

	t.Run("só detratores dá score negativo", func(t *testing.T) {
		r := CalcularNPS(notas(0, 1, 2))
		if r.Score != -100 {
			t.Fatalf("score = %d, esperado -100", r.Score)
		}
		if r.Zona != ZonaCritica {
			t.Fatalf("zona = %q", r.Zona)
		}
	})
}

func TestZonaNPS(t *testing.T) {
	casos := []struct {
		score int
		zona  string
	}{
		{-100, ZonaCritica},
		{-1, ZonaCritica},
		{0, ZonaAperfeicoamento},
		{49, ZonaAperfeicoamento},
		{50, ZonaQualidade},
		{74, ZonaQualidade},
		{75, ZonaExcelencia},
		{100, ZonaExcelencia},
	}
	for _, c := range casos {
		if got := ZonaNPS(c.score); got != c.zona {
			t.Errorf("ZonaNPS(%d) = %q, esperado %q", c.score, got, c.zona)
		}
	}
}
