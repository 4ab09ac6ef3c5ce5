package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/GHASConsulting/nps-growth-lab/controllers"
	"github.com/GHASConsulting/nps-growth-lab/middleware"
)

// SetupRoutes registra todas as rotas da API no engine.
func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.Health)
	r.GET("/ping", controllers.Ping)

	// Coletor público: sem autenticação, com limite por IP no envio.
	r.GET("/responder/:id", controllers.FormularioPublico)
	r.POST("/responder/:id", middleware.RateLimitSubmit(), controllers.EnviarRespostas)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLoginHandler)
		}

		autenticado := api.Group("")
		autenticado.Use(middleware.AuthJWT())
		{
			autenticado.GET("/me", controllers.Me)
			autenticado.POST("/auth/change-password", controllers.ChangePassword)

			pesquisas := autenticado.Group("/pesquisas")
			{
				pesquisas.POST("", controllers.CriarPesquisa)
				pesquisas.GET("", controllers.ListarPesquisas)

				dono := pesquisas.Group("/:id")
				dono.Use(middleware.CheckPesquisaOwner())
				{
					dono.GET("", controllers.DetalhePesquisa)
					dono.PUT("", controllers.AtualizarPesquisa)
					dono.DELETE("", controllers.ExcluirPesquisa)
					dono.PUT("/ativa", controllers.AlternarAtiva)
					dono.GET("/link", controllers.LinkResposta)
					dono.POST("/perguntas", controllers.AdicionarPergunta)
					dono.PUT("/perguntas/reorder", controllers.ReordenarPerguntas)
					dono.POST("/export", controllers.SolicitarExportacao)
				}
			}

			perguntas := autenticado.Group("/perguntas/:id")
			perguntas.Use(middleware.CheckPerguntaOwner())
			{
				perguntas.PUT("", controllers.AtualizarPergunta)
				perguntas.DELETE("", controllers.ExcluirPergunta)
			}

			indicadores := autenticado.Group("/indicadores")
			{
				indicadores.GET("/dashboard", controllers.Dashboard)
				indicadores.GET("/analise", controllers.AnaliseIndicadores)
				indicadores.POST("/avaliar", controllers.SolicitarAvaliacao)
			}

			categorias := autenticado.Group("/categorias")
			{
				categorias.GET("", controllers.ListarCategorias)
				categorias.POST("", controllers.CriarCategoria)
				categorias.DELETE("/:id", controllers.ExcluirCategoria)
			}

			autenticado.GET("/integracoes", controllers.ObterIntegracao)
			autenticado.PUT("/integracoes", controllers.AtualizarIntegracao)
			autenticado.POST("/uploads", controllers.UploadLogoHandler)
			autenticado.GET("/exports/:job_id", controllers.ConsultarExportacao)

			admin := autenticado.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", controllers.ListarUsuarios)
				admin.POST("/users", controllers.CriarUsuario)
				admin.PUT("/users/:id", controllers.AtualizarUsuario)
				admin.POST("/users/:id/reset-password", controllers.ResetarSenha)
			}
		}
	}
}
