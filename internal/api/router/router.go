package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/config"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/api/handler"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/internal/api/middleware"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/jwt"
	"github.com/Ajaya-Rajbhandari/timesheet-system-sub000/pkg/redis"
)

const (
	maxBodyBytes    = 1 << 20 // 1 MiB
	rateLimitPerIP  = 120
	rateLimitWindow = time.Minute
	authLimitPerIP  = 10 // 登录/刷新接口单独收紧
	authLimitWindow = time.Minute
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
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.RateLimit(rdb, rateLimitPerIP, rateLimitWindow))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, authLimitPerIP, authLimitWindow))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/password", h.Auth.ChangePassword)
			authorized.POST("/auth/register", middleware.RoleAuth("admin"), h.Auth.Register)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.GET("", middleware.RoleAuth("admin", "manager"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("admin", "manager"), h.User.GetUser)
				users.PUT("/:id", middleware.RoleAuth("admin"), h.User.UpdateUser)
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
				users.PUT("/:id/deactivate", middleware.RoleAuth("admin"), h.User.DeactivateUser)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
			}

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth("admin"), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth("admin"), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.DeleteDepartment)
			}

			// 排班模块
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("", h.Schedule.ListSchedules)
				schedules.GET("/mine", h.Schedule.ListMySchedules)
				schedules.GET("/calendar.ics", h.Schedule.ExportCalendar)
				schedules.POST("/validate", h.Schedule.ValidateSchedule)
				schedules.POST("/suggestions", h.Schedule.SuggestSchedules)
				schedules.GET("/:id", h.Schedule.GetSchedule)
				schedules.POST("", h.Schedule.CreateSchedule)       // 员工仅限本人（Service 层鉴权）
				schedules.PUT("/:id", h.Schedule.UpdateSchedule)    // 同上
				schedules.DELETE("/:id", h.Schedule.DeleteSchedule) // 同上
			}

			// 换班模块
			swaps := authorized.Group("/swap-requests")
			{
				swaps.POST("", h.Swap.CreateSwap)
				swaps.GET("", h.Swap.ListSwaps)
				swaps.GET("/:id", h.Swap.GetSwap)
				swaps.PUT("/:id/respond", h.Swap.RespondSwap)
				swaps.PUT("/:id/cancel", h.Swap.CancelSwap)
				swaps.PUT("/:id/manager-approval", middleware.RoleAuth("admin", "manager"), h.Swap.ManagerApproval)
			}

			// 请假模块
			timeOff := authorized.Group("/time-off")
			{
				timeOff.POST("", h.TimeOff.CreateTimeOff)
				timeOff.GET("", h.TimeOff.ListTimeOff)
				timeOff.GET("/:id", h.TimeOff.GetTimeOff)
				timeOff.PUT("/:id/cancel", h.TimeOff.CancelTimeOff)
				timeOff.PUT("/:id/review", middleware.RoleAuth("admin", "manager"), h.TimeOff.ReviewTimeOff)
			}

			// 打卡模块
			timeEntries := authorized.Group("/time-entries")
			{
				timeEntries.POST("/clock-in", h.TimeEntry.ClockIn)
				timeEntries.POST("/clock-out", h.TimeEntry.ClockOut)
				timeEntries.POST("/break/start", h.TimeEntry.StartBreak)
				timeEntries.POST("/break/end", h.TimeEntry.EndBreak)
				timeEntries.GET("/today", h.TimeEntry.GetToday)
				timeEntries.GET("", h.TimeEntry.ListTimeEntries)
			}

			// 报表导出模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/timesheet", middleware.RoleAuth("admin", "manager"), h.Report.ExportTimesheet)
			}
		}
	}

	return r
}
