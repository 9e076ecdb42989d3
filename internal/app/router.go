package app

import (
	"heritage_edu_backend/docs"
	"heritage_edu_backend/internal/config"
	"heritage_edu_backend/internal/middleware"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（游客无需登录即可浏览和参与）
	a.registerPublicRoutes(router, c)

	// 2. 登录后路由
	a.registerAuthorizedRoutes(router, c, repos)

	// 3. 管理端路由（teacher / super_admin）
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	// 带 token 则注入身份，纯游客照常访问
	public.Use(middleware.TryAuthMiddleware(a.Config))
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/auth/roles", c.auth.Roles)

		// 地点
		public.GET("/sites", c.site.ListSites)
		public.GET("/sites/geojson", c.site.GetFeatureCollection)
		public.GET("/sites/:id", c.site.GetSite)

		// 反馈
		public.POST("/feedback", c.feedback.Submit)

		// 答题
		public.GET("/quizzes", c.quiz.ListQuizzes)
		public.GET("/quizzes/leaderboard", c.quiz.AttemptLeaderboard)
		public.GET("/quizzes/attempts", c.quiz.UserAttempts)
		public.POST("/quizzes/check-attempts", c.quiz.CheckAttempts)
		public.GET("/quizzes/:id", c.quiz.GetQuiz)
		public.POST("/quizzes/:id/submit", c.quiz.SubmitAnswer)

		// 进度与成就
		public.GET("/profiles/:user_name", c.progression.GetProfile)
		public.GET("/leaderboard", c.progression.Leaderboard)
		public.GET("/achievements", c.progression.ListAchievements)

		// 对战（报名制，游客可看可打）
		public.GET("/battles", c.battle.ListBattles)
		public.GET("/battles/mine", c.battle.MyBattles)
		public.GET("/battles/:id", c.battle.GetBattle)
		public.GET("/battles/:id/standings", c.battle.Standings)
		public.GET("/battles/:id/progress", c.battle.MyProgress)
		public.GET("/battles/:id/questions", c.battle.Questions)
		public.POST("/battles/:id/answer", c.battle.SubmitAnswer)

		// 留言
		public.GET("/comments", c.comment.List)
		public.POST("/comments", c.comment.Create)
		public.POST("/comments/:id/report", c.comment.Report)
		public.DELETE("/comments/:id", c.comment.Delete)

		// 上传
		public.POST("/upload/image", c.upload.UploadImage)

		// 系统设置只读公开，修改走管理端
		public.GET("/settings", c.settings.Get)
	}
}

func (a *App) registerAuthorizedRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		authorized.GET("/auth/me", c.auth.Me)
		authorized.PUT("/profile", c.progression.UpdateProfile)

		// 建战限 teacher / super_admin
		staff := authorized.Group("")
		staff.Use(middleware.RoleMiddleware(model.Teacher))
		{
			staff.POST("/battles", c.battle.CreateBattle)
			staff.POST("/battles/random", c.battle.CreateRandomBattle)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Teacher),
	)
	{
		// 用户管理
		admin.GET("/users", c.user.ListUsers)
		admin.POST("/users", c.user.CreateUser)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		// 地点维护
		admin.POST("/sites", c.site.CreateSite)
		admin.PUT("/sites/:id", c.site.UpdateSite)
		admin.DELETE("/sites/:id", c.site.DeleteSite)

		// 题目维护
		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		admin.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)

		// 对战控制
		admin.POST("/battles/:id/start", c.battle.StartBattle)
		admin.POST("/battles/:id/end", c.battle.EndBattle)
		admin.POST("/battles/:id/cancel", c.battle.CancelBattle)

		// 手动奖励经验
		admin.POST("/profiles/add-xp", c.progression.GrantXP)

		// 反馈与留言审核
		admin.GET("/feedback", c.feedback.List)
		admin.DELETE("/feedback/:id", c.feedback.Delete)
		admin.GET("/comments/reported", c.comment.ListReported)

		// 系统设置
		admin.PUT("/settings", c.settings.Update)
	}
}
