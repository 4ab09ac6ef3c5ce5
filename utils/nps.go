package utils

import "math"

// Zonas de NPS (tabela canônica de exibição).
const (
	ZonaCritica         = "Crítica"
	ZonaAperfeicoamento = "Aperfeiçoamento"
	ZonaQualidade       = "Qualidade"
	ZonaExcelencia      = "Excelência"
)

// ResumoNPS é o resultado de uma passada sobre as notas já filtradas.
type ResumoNPS struct {
	Histograma [11]int `json:"histograma"` // quantidade por nota 0..10
	Promotores int     `json:"promotores"` // nota >= 9
	Neutros    int     `json:"neutros"`    // nota 7 ou 8
	Detratores int     `json:"detratores"` // nota <= 6
	Total      int     `json:"total"`
	Score      int     `json:"score"` // -100..100, 0 quando total == 0
	Zona       string  `json:"zona"`
}

// CalcularNPS classifica as notas e calcula o score pela fórmula padrão
// round(((promotores - detratores) / total) * 100). Notas nulas ficam fora
// de tudo (não contam como zero); fora de 0..10 também são descartadas.
func CalcularNPS(notas []*int) ResumoNPS {
	var r ResumoNPS
	for _, n := range notas {
		if n == nil || *n < 0 || *n > 10 {
			continue
		}
		r.Histograma[*n]++
		r.Total++
		switch {
		case *n >= 9:
			r.Promotores++
		case *n >= 7:
			r.Neutros++
		default:
			r.Detratores++
		}
	}
	if r.Total > 0 {
		r.Score = int(math.Round(float64(r.Promotores-r.Detratores) / float64(r.Total) * 100))
	}
	r.Zona = ZonaNPS(r.Score)
	return r
}

// ZonaNPS devolve o rótulo de exibição do score.
func ZonaNPS(score int) string {
	switch {
	case score < 0:
		return ZonaCritica
	case score <= 49:
		return ZonaAperfeicoamento
	case score <= 74:
		return ZonaQualidade
	default:
		return ZonaExcelencia
	}
}
