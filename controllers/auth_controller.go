package controllers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
	"github.com/GHASConsulting/nps-growth-lab/models"
	"github.com/GHASConsulting/nps-growth-lab/utils"
)

type registroReq struct {
	Nome  string `json:"nome" binding:"required,min=1"`
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required,min=6"`
}

func Register(c *gin.Context) {
	var req registroReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Usuario{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado"})
		return
	}

	hash, err := utils.HashPassword(req.Senha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criptografar a senha"})
		return
	}

	// conta, perfil e papel nascem juntos ou não nascem
	u := models.Usuario{Email: req.Email, SenhaHash: hash}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Profile{UsuarioID: u.ID, NomeCompleto: req.Nome}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PapelUsuario{UsuarioID: u.ID, Papel: models.PapelUser}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar a conta"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":        u.ID,
			"nome":      req.Nome,
			"email":     u.Email,
			"papel":     models.PapelUser,
			"criado_em": u.CriadoEm,
		},
	})
}

type loginReq struct {
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required"`
}

func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var u models.Usuario
	if err := config.DB.Preload("Profile").Where("email = ?", req.Email).First(&u).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
		return
	}
	if !utils.CheckPassword(u.SenhaHash, req.Senha) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
		return
	}

	papel := papelDe(u.ID)
	token, err := utils.GenerateToken(strconv.FormatUint(uint64(u.ID), 10), papel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível emitir o token"})
		return
	}

	trocarSenha := u.Profile != nil && u.Profile.TrocarSenha
	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"trocar_senha": trocarSenha,
		"user":         usuarioPublico(u, papel),
	})
}

type googleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLoginHandler valida o ID token do Google e emite o JWT da aplicação,
// criando a conta na primeira entrada.
func GoogleLoginHandler(c *gin.Context) {
	var req googleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token do Google inválido"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	nome, _ := payload.Claims["name"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token do Google sem email"})
		return
	}

	var u models.Usuario
	err = config.DB.Preload("Profile").Where("email = ?", email).First(&u).Error
	if err != nil {
		// primeira entrada: cria conta com senha aleatória
		hash, herr := utils.HashPassword(uuid.NewString())
		if herr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar a conta"})
			return
		}
		u = models.Usuario{Email: email, SenhaHash: hash}
		err = config.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Profile{UsuarioID: u.ID, NomeCompleto: nome}).Error; err != nil {
				return err
			}
			return tx.Create(&models.PapelUsuario{UsuarioID: u.ID, Papel: models.PapelUser}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criar a conta"})
			return
		}
	}

	papel := papelDe(u.ID)
	token, err := utils.GenerateToken(strconv.FormatUint(uint64(u.ID), 10), papel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível emitir o token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": usuarioPublico(u, papel)})
}

func Me(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)
	papel := c.MustGet(middleware.CtxPapel).(string)
	c.JSON(http.StatusOK, usuarioPublico(u, papel))
}

type trocarSenhaReq struct {
	SenhaAtual string `json:"senha_atual" binding:"required"`
	NovaSenha  string `json:"nova_senha" binding:"required,min=6"`
}

// ChangePassword troca a senha do próprio usuário e limpa a flag
// trocar_senha deixada por um reset administrativo.
func ChangePassword(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Usuario)

	var req trocarSenhaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !utils.CheckPassword(u.SenhaHash, req.SenhaAtual) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Senha atual incorreta"})
		return
	}

	hash, err := utils.HashPassword(req.NovaSenha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível criptografar a senha"})
		return
	}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Usuario{}).Where("id = ?", u.ID).
			Update("senha_hash", hash).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).Where("usuario_id = ?", u.ID).
			Update("trocar_senha", false).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível atualizar a senha"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func papelDe(usuarioID uint) string {
	var role models.PapelUsuario
	if err := config.DB.Where("usuario_id = ?", usuarioID).First(&role).Error; err != nil {
		return models.PapelUser
	}
	return role.Papel
}

func usuarioPublico(u models.Usuario, papel string) gin.H {
	nome := ""
	if u.Profile != nil {
		nome = u.Profile.NomeCompleto
	}
	return gin.H{
		"id":        u.ID,
		"nome":      nome,
		"email":     u.Email,
		"papel":     papel,
		"criado_em": u.CriadoEm,
	}
}
