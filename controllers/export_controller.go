package controllers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
)

/* ========== Exportação assíncrona de respostas ========== */

type exportReq struct {
	Format string `json:"format"`
	From   string `json:"range_from"`
	To     string `json:"range_to"`
}

// SolicitarExportacao enfileira a geração do arquivo e devolve o job na
// hora; o cliente acompanha pelo job_id.
func SolicitarExportacao(c *gin.Context) {
	p := c.MustGet(middleware.CtxPesquisa).(models.Pesquisa)

	var req exportReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payload inválido"})
			return
		}
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" && req.Format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format deve ser csv ou xlsx"})
		return
	}

	job := models.ExportJob{
		JobID:      uuid.NewString(),
		PesquisaID: p.ID,
		Format:     req.Format,
		Status:     "queued",
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from deve estar no formato AAAA-MM-DD"})
			return
		}
		job.RangeFrom = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to deve estar no formato AAAA-MM-DD"})
			return
		}
		fim := to.Add(24 * time.Hour)
		job.RangeTo = &fim
	}

	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível registrar a exportação"})
		return
	}

	go processarExportacao(job.JobID)

	c.JSON(http.StatusAccepted, job)
}

// ConsultarExportacao serve o arquivo como anexo quando o job terminou;
// enquanto não termina, devolve o estado em JSON.
func ConsultarExportacao(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var job models.ExportJob
	if err := config.DB.
		Joins("JOIN pesquisas ON pesquisas.id = export_jobs.pesquisa_id").
		Where("export_jobs.job_id = ? AND pesquisas.usuario_id = ?", c.Param("job_id"), u.ID).
		First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exportação não encontrada"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, filepath.Base(*job.FilePath))
		return
	}
	c.JSON(http.StatusOK, job)
}

func processarExportacao(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		log.Printf("exportação %s sumiu antes de processar: %v", jobID, err)
		return
	}

	config.DB.Model(&job).Update("status", "processing")

	caminho, err := gerarArquivo(&job)
	if err != nil {
		msg := err.Error()
		config.DB.Model(&job).Updates(map[string]interface{}{
			"status":    "failed",
			"error_msg": msg,
		})
		log.Printf("exportação %s falhou: %v", jobID, err)
		return
	}

	config.DB.Model(&job).Updates(map[string]interface{}{
		"status":    "done",
		"file_path": caminho,
	})
}

// gerarArquivo monta uma linha por grupo de resposta, com uma coluna por
// pergunta na ordem do formulário.
func gerarArquivo(job *models.ExportJob) (string, error) {
	var perguntas []models.Pergunta
	if err := config.DB.Where("pesquisa_id = ?", job.PesquisaID).Order("ordem ASC").Find(&perguntas).Error; err != nil {
		return "", err
	}

	q := config.DB.Where("pesquisa_id = ?", job.PesquisaID)
	if job.RangeFrom != nil {
		q = q.Where("respondido_em >= ?", *job.RangeFrom)
	}
	if job.RangeTo != nil {
		q = q.Where("respondido_em < ?", *job.RangeTo)
	}
	var respostas []models.Resposta
	if err := q.Find(&respostas).Error; err != nil {
		return "", err
	}

	type linhaGrupo struct {
		quando  time.Time
		canal   string
		valores map[uint]string
	}
	grupos := map[string]*linhaGrupo{}
	ordemGrupos := []string{}
	for _, r := range respostas {
		g, ok := grupos[r.RespostaGrupoID]
		if !ok {
			g = &linhaGrupo{quando: r.RespondidoEm, canal: r.Canal, valores: map[uint]string{}}
			grupos[r.RespostaGrupoID] = g
			ordemGrupos = append(ordemGrupos, r.RespostaGrupoID)
		}
		g.valores[r.PerguntaID] = FormatarResposta(r)
	}
	sort.Slice(ordemGrupos, func(i, j int) bool {
		return grupos[ordemGrupos[i]].quando.Before(grupos[ordemGrupos[j]].quando)
	})

	cabecalho := []string{"respondido_em", "canal"}
	for _, p := range perguntas {
		cabecalho = append(cabecalho, p.Texto)
	}
	linhas := [][]string{}
	for _, id := range ordemGrupos {
		g := grupos[id]
		linha := []string{g.quando.Format("2006-01-02 15:04:05"), g.canal}
		for _, p := range perguntas {
			linha = append(linha, g.valores[p.ID])
		}
		linhas = append(linhas, linha)
	}

	dir := os.Getenv("EXPORT_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	nome := fmt.Sprintf("pesquisa_%d_%s.%s", job.PesquisaID, job.JobID, job.Format)
	caminho := filepath.Join(dir, nome)

	if job.Format == "xlsx" {
		return caminho, escreverXLSX(caminho, cabecalho, linhas)
	}
	return caminho, escreverCSV(caminho, cabecalho, linhas)
}

func escreverCSV(caminho string, cabecalho []string, linhas [][]string) error {
	f, err := os.Create(caminho)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cabecalho); err != nil {
		return err
	}
	if err := w.WriteAll(linhas); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func escreverXLSX(caminho string, cabecalho []string, linhas [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	aba := "Respostas"
	if err := f.SetSheetName("Sheet1", aba); err != nil {
		return err
	}
	for col, titulo := range cabecalho {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(aba, cell, titulo); err != nil {
			return err
		}
	}
	for i, linha := range linhas {
		for col, valor := range linha {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(aba, cell, valor); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(caminho)
}
