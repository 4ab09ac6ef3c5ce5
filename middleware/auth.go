package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHASConsulting/nps-growth-lab/config"
	"github.com/GHASConsulting/nps-growth-lab/models"
	"github.com/GHASConsulting/nps-growth-lab/utils"
)

const (
	CtxUser  = "user"
	CtxPapel = "papel"
)

// AuthJWT valida o Authorization: Bearer <token>, carrega o usuário e o
// papel dele e injeta os dois no context. Fecha com 401 em qualquer falha.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Não autenticado"})
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyToken(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			return
		}

		uid, err := strconv.ParseUint(claims.UserID, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Subject inválido"})
			return
		}

		var user models.Usuario
		if err := config.DB.Preload("Profile").First(&user, uid).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Usuário não encontrado"})
			return
		}

		papel := models.PapelUser
		var role models.PapelUsuario
		if err := config.DB.Where("usuario_id = ?", user.ID).First(&role).Error; err == nil {
			papel = role.Papel
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível carregar o papel"})
			return
		}

		c.Set(CtxUser, user)
		c.Set(CtxPapel, papel)
		c.Next()
	}
}

// RequireAdmin barra rotas privilegiadas: 403 para sessão válida sem linha
// de papel admin, sem executar nada do handler.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxPapel)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Não autenticado"})
			return
		}
		if v.(string) != models.PapelAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Sem permissão de administrador"})
			return
		}
		c.Next()
	}
}
