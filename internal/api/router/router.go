package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talleres-api/config"
	"talleres-api/internal/api/handler"
	"talleres-api/internal/api/middleware"
	"talleres-api/internal/metrics"
	"talleres-api/internal/model"
	"talleres-api/pkg/jwt"
)

// Deps 路由依赖；Blacklist / Limiter 为 nil 时对应功能降级放行
type Deps struct {
	JWT       *jwt.Manager
	Blacklist middleware.TokenBlacklist
	Limiter   middleware.RateLimiter
	Logger    *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查与指标 ──
	r.GET("/health", h.Health.Check)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	const (
		admin      = model.TipoAdmin
		instructor = model.TipoInstructor
		alumno     = model.TipoAlumno
	)
	rl := cfg.RateLimit

	api := r.Group("/api")
	{
		// 认证模块（无需认证）
		auth := api.Group("/auth")
		{
			loginLimit := middleware.RateLimit(deps.Limiter, rl.LoginLimit, rl.LoginWindow)
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/register", loginLimit, h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(deps.JWT, deps.Blacklist))
		{
			// 认证与个人档案
			me := authorized.Group("/auth")
			{
				me.GET("/verify", h.Auth.Verify)
				me.POST("/logout", h.Auth.Logout)
				me.PUT("/change-password", h.Auth.ChangePassword)
				me.GET("/profile", h.Profile.GetProfile)
				me.PUT("/profile", h.Profile.UpdateProfile)
				me.PUT("/complete-profile", middleware.RoleAuth(alumno), h.Profile.CompleteProfile)
			}

			// 工作坊模块
			talleres := authorized.Group("/talleres")
			{
				talleres.GET("", h.Taller.List)
				talleres.GET("/estadisticas", middleware.RoleAuth(admin), h.Taller.Stats)
				talleres.GET("/disponibles", middleware.RoleAuth(alumno), h.Taller.Available)
				talleres.GET("/mis-talleres", middleware.RoleAuth(instructor), h.Taller.Mine)
				talleres.GET("/mis-inscripciones", middleware.RoleAuth(alumno), h.Inscripcion.Mine)
				talleres.GET("/categoria/:categoria", h.Taller.ListByCategoria)
				talleres.GET("/:id", h.Taller.Get)
				talleres.POST("", middleware.RoleAuth(admin), h.Taller.Create)
				talleres.PUT("/:id", middleware.RoleAuth(admin, instructor), h.Taller.Update) // 讲师仅限本人负责（Service 层鉴权）
				talleres.DELETE("/:id", middleware.RoleAuth(admin), h.Taller.Delete)
				talleres.GET("/:id/cupo", h.Taller.Seats)
				talleres.GET("/:id/alumnos", middleware.RoleAuth(admin, instructor), h.Taller.ListEnrolledStudents)
				talleres.GET("/:id/alumnos/export", middleware.RoleAuth(admin, instructor), h.Export.ExportRoster)
				talleres.GET("/:id/puede-inscribirse", middleware.RoleAuth(alumno), h.Inscripcion.CanEnroll)
				talleres.POST("/:id/inscribirse",
					middleware.RoleAuth(alumno),
					middleware.RateLimit(deps.Limiter, rl.EnrollLimit, rl.EnrollWindow),
					h.Inscripcion.Enroll,
				)
			}

			// 报名模块
			inscripciones := authorized.Group("/inscripciones")
			{
				inscripciones.PUT("/:id/cancelar", middleware.RoleAuth(admin, alumno), h.Inscripcion.Cancel)
			}

			// 公告模块
			avisos := authorized.Group("/avisos")
			{
				avisos.GET("/taller/:tallerId", h.Aviso.ListByTaller)
				avisos.GET("/alumno", middleware.RoleAuth(alumno), h.Aviso.ListForStudent)
				avisos.GET("/mis-avisos", middleware.RoleAuth(instructor), h.Aviso.ListMine)
				avisos.GET("/importantes", h.Aviso.Important)
				avisos.GET("/buscar", h.Aviso.Search)
				avisos.GET("/estadisticas", middleware.RoleAuth(admin, instructor), h.Aviso.Stats)
				avisos.GET("/proximos-expirar", middleware.RoleAuth(admin, instructor), h.Aviso.ExpiringSoon)
				avisos.GET("/:id", h.Aviso.Get)
				avisos.POST("", middleware.RoleAuth(instructor), h.Aviso.Create)
				avisos.PUT("/:id", middleware.RoleAuth(admin, instructor), h.Aviso.Update)
				avisos.DELETE("/:id", middleware.RoleAuth(admin, instructor), h.Aviso.Delete)
			}

			// 日历模块
			calendario := authorized.Group("/calendario")
			{
				calendario.GET("/taller/:tallerId", h.Calendario.ListByTaller)
				calendario.GET("/mis-fechas", middleware.RoleAuth(instructor), h.Calendario.ListMine)
				calendario.GET("/proximos", middleware.RoleAuth(alumno), h.Calendario.Upcoming)
				calendario.GET("/mensual", h.Calendario.Monthly)
				calendario.GET("/hoy", h.Calendario.Today)
				calendario.GET("/tipo/:tipo", h.Calendario.ByType)
				calendario.GET("/buscar", h.Calendario.Search)
				calendario.GET("/estadisticas", middleware.RoleAuth(admin, instructor), h.Calendario.Stats)
				calendario.GET("/rango", h.Calendario.Range)
				calendario.GET("/:id", h.Calendario.Get)
				calendario.POST("", middleware.RoleAuth(instructor), h.Calendario.Create)
				calendario.PUT("/:id", middleware.RoleAuth(admin, instructor), h.Calendario.Update)
				calendario.DELETE("/:id", middleware.RoleAuth(admin, instructor), h.Calendario.Delete)
			}

			// 紧急联系信息（仅学生本人）
			emergencia := authorized.Group("/emergencia", middleware.RoleAuth(alumno))
			{
				emergencia.GET("", h.Emergencia.GetMine)
				emergencia.POST("", h.Emergencia.Upsert)
				emergencia.DELETE("/:id", h.Emergencia.Delete)
			}
		}
	}

	return r
}
