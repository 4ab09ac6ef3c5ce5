package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/models"
	"github.com/GHASConsulting/nps-growth-lab/utils"
)

/* ========== Operações privilegiadas sobre usuários (somente admin) ========== */

type adminUsuarioView struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	NomeCompleto string `json:"full_name"`
	Papel        string `json:"role"`
	TrocarSenha  bool   `json:"trocar_senha"`
}

func montarView(u models.Usuario) adminUsuarioView {
	v := adminUsuarioView{ID: u.ID, Email: u.Email, Papel: models.PapelUser}
	if u.Profile != nil {
		v.NomeCompleto = u.Profile.NomeCompleto
		v.TrocarSenha = u.Profile.TrocarSenha
	}
	if u.Papel != nil {
		v.Papel = u.Papel.Papel
	}
	return v
}

func ListarUsuarios(c *gin.Context) {
	var usuarios []models.Usuario
	if err := config.DB.Preload("Profile").Preload("Papel").Order("id ASC").Find(&usuarios).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível listar os usuários"})
		return
	}
	views := make([]adminUsuarioView, 0, len(usuarios))
	for _, u := range usuarios {
		views = append(views, montarView(u))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": views})
}

type criarUsuarioReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// CriarUsuario provisiona conta, perfil e papel em etapas separadas.
// Cada etapa concluída registra sua compensação; se uma etapa falha, as
// compensações rodam em ordem inversa para não deixar resíduo parcial.
func CriarUsuario(c *gin.Context) {
	var req criarUsuarioReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.FullName == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password, full_name e role são obrigatórios"})
		return
	}
	if req.Role != models.PapelAdmin && req.Role != models.PapelUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role deve ser admin ou user"})
		return
	}

	var existente models.Usuario
	if err := config.DB.Where("email = ?", req.Email).First(&existente).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível processar a senha"})
		return
	}

	var compensacoes []func()
	desfazer := func() {
		for i := len(compensacoes) - 1; i >= 0; i-- {
			compensacoes[i]()
		}
	}

	u := models.Usuario{Email: req.Email, SenhaHash: hash}
	if err := config.DB.Create(&u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar o usuário"})
		return
	}
	compensacoes = append(compensacoes, func() {
		if err := config.DB.Delete(&models.Usuario{}, u.ID).Error; err != nil {
			log.Printf("compensação: falha ao remover usuário %d: %v", u.ID, err)
		}
	})

	perfil := models.Profile{
		UsuarioID:    u.ID,
		NomeCompleto: req.FullName,
		TrocarSenha:  true,
	}
	if err := config.DB.Create(&perfil).Error; err != nil {
		desfazer()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar o perfil"})
		return
	}
	compensacoes = append(compensacoes, func() {
		if err := config.DB.Delete(&models.Profile{}, perfil.ID).Error; err != nil {
			log.Printf("compensação: falha ao remover perfil %d: %v", perfil.ID, err)
		}
	})

	papel := models.PapelUsuario{UsuarioID: u.ID, Papel: req.Role}
	if err := config.DB.Create(&papel).Error; err != nil {
		desfazer()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível atribuir o papel"})
		return
	}

	u.Profile = &perfil
	u.Papel = &papel
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": montarView(u)})
}

type atualizarUsuarioReq struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
}

func AtualizarUsuario(c *gin.Context) {
	var u models.Usuario
	if err := config.DB.Preload("Profile").Preload("Papel").First(&u, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		return
	}

	var req atualizarUsuarioReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email não pode ser vazio"})
			return
		}
		var outro models.Usuario
		if err := config.DB.Where("email = ? AND id <> ?", email, u.ID).First(&outro).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado"})
			return
		}
		if err := config.DB.Model(&u).Update("email", email).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível atualizar o email"})
			return
		}
	}

	if req.FullName != nil {
		if u.Profile == nil {
			perfil := models.Profile{UsuarioID: u.ID, NomeCompleto: *req.FullName}
			if err := config.DB.Create(&perfil).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar o perfil"})
				return
			}
			u.Profile = &perfil
		} else if err := config.DB.Model(u.Profile).Update("nome_completo", *req.FullName).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível atualizar o perfil"})
			return
		}
	}

	if req.Role != nil {
		if *req.Role != models.PapelAdmin && *req.Role != models.PapelUser {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role deve ser admin ou user"})
			return
		}
		// Troca de papel substitui a linha inteira, nunca acumula papéis.
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("usuario_id = ?", u.ID).Delete(&models.PapelUsuario{}).Error; err != nil {
				return err
			}
			return tx.Create(&models.PapelUsuario{UsuarioID: u.ID, Papel: *req.Role}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível atualizar o papel"})
			return
		}
	}

	if err := config.DB.Preload("Profile").Preload("Papel").First(&u, u.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível recarregar o usuário"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": montarView(u)})
}

type resetSenhaReq struct {
	NewPassword string `json:"new_password"`
}

// ResetarSenha define uma senha temporária e marca o perfil para forçar a
// troca no próximo login.
func ResetarSenha(c *gin.Context) {
	var u models.Usuario
	if err := config.DB.Preload("Profile").First(&u, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		return
	}

	var req resetSenhaReq
	if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_password é obrigatório"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível processar a senha"})
		return
	}
	if err := config.DB.Model(&u).Update("senha_hash", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível redefinir a senha"})
		return
	}
	// sem profile não há onde marcar a troca obrigatória, então ele é criado
	if u.Profile == nil {
		perfil := models.Profile{UsuarioID: u.ID, TrocarSenha: true}
		if err := config.DB.Create(&perfil).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível marcar a troca de senha"})
			return
		}
	} else if err := config.DB.Model(u.Profile).Update("trocar_senha", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível marcar a troca de senha"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Senha redefinida; o usuário deverá trocá-la no próximo login"})
}
