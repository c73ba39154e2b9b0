package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/config"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/api/handler"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/internal/api/middleware"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/pkg/jwt"
	"github.com/yingxiong84/Smart-Proctoring-Schedule-System/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// 导入接口走 multipart，整体限制取导入上限加一点表单开销
	maxBody := int64(cfg.Import.MaxFileSizeMB)<<20 + 1<<20
	r.Use(middleware.BodyLimit(maxBody))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口加速率限制防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 教师名单模块
			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Roster.ListTeachers)
				teachers.POST("/import", middleware.RoleAuth("admin"), h.Roster.ImportTeachers)
			}

			// 考场安排模块
			examSlots := authorized.Group("/exam-slots")
			{
				examSlots.GET("", h.Exam.ListSlots)
				examSlots.POST("/import", middleware.RoleAuth("admin"), h.Exam.ImportSlots)
			}
			authorized.GET("/sessions", h.Exam.ListSessions)

			// 规则模块（排除规则与预指派）
			rules := authorized.Group("/rules")
			{
				rules.GET("/exclusions", h.Rule.ListExclusions)
				rules.POST("/exclusions", middleware.RoleAuth("admin"), h.Rule.CreateExclusion)
				rules.DELETE("/exclusions/:id", middleware.RoleAuth("admin"), h.Rule.DeleteExclusion)

				rules.GET("/pre-assignments", h.Rule.ListPreAssignments)
				rules.POST("/pre-assignments", middleware.RoleAuth("admin"), h.Rule.CreatePreAssignment)
				rules.DELETE("/pre-assignments/:id", middleware.RoleAuth("admin"), h.Rule.DeletePreAssignment)
			}

			// 排班模块
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("/generate", middleware.RoleAuth("admin"), h.Schedule.Generate)
				schedules.GET("/current", h.Schedule.GetCurrent)
				schedules.POST("/swap", middleware.RoleAuth("admin"), h.Schedule.Swap)
				schedules.PUT("/records/:id/reassign", middleware.RoleAuth("admin"), h.Schedule.Reassign)
				schedules.POST("/publish", middleware.RoleAuth("admin"), h.Schedule.Publish)
				schedules.GET("/change-logs", h.Schedule.ListChangeLogs)
				schedules.GET("/workloads", h.Schedule.Workloads)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/schedule", h.Export.ExportSchedule)
				export.GET("/teachers/:name/ics", h.Export.ExportTeacherICS)
			}
		}
	}

	return r
}
