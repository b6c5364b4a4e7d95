package routes

import (
	"Gin_postgres_redis_media_stock/app"
	"Gin_postgres_redis_media_stock/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	userCtl := controllers.NewUserController(s)
	catalogCtl := controllers.NewCatalogController(s)
	cartCtl := controllers.NewCartController(s)
	submitCtl := controllers.NewSubmissionController(s)
	approvalCtl := controllers.NewApprovalController(s)
	reportCtl := controllers.NewReportController(s)
	inviteCtl := controllers.NewInviteController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 认证（公开+受保护）
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.GET("/whoami", authCtl.WhoAmI)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// 物品目录（浏览所有人，管理操作仅管理员）
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", catalogCtl.ListItems)
		items.GET("/:id", catalogCtl.GetItem)
		items.GET("/categories", catalogCtl.ListCategories)
	}
	itemsAdmin := r.Group("/api/admin/items", authMW, adminMW)
	{
		itemsAdmin.POST("", catalogCtl.CreateItem)
		itemsAdmin.PUT("/:id", catalogCtl.UpdateItem)
		itemsAdmin.DELETE("/:id", catalogCtl.DeleteItem)
		itemsAdmin.POST("/:id/adjust", catalogCtl.AdjustQuantity)
		itemsAdmin.POST("/categories", catalogCtl.CreateCategory)
	}

	// ------------------------------
	// 购物车 + 提交
	// ------------------------------
	cart := r.Group("/api/cart", authMW, seenMW)
	{
		cart.POST("", cartCtl.Add)
		cart.GET("", cartCtl.List)
		cart.DELETE("/:entryId", cartCtl.Remove)
		cart.POST("/submit", submitCtl.Submit)
	}

	// 用户自己的提交历史（按组）
	r.GET("/api/history", authMW, seenMW, reportCtl.MyHistory)

	// ------------------------------
	// 审批工作台（仅管理员）
	// ------------------------------
	groups := r.Group("/api/admin/groups", authMW, adminMW)
	{
		groups.GET("", approvalCtl.ListGroups)
		groups.GET("/:groupId", approvalCtl.GetGroup)
		groups.POST("/:groupId/approve", approvalCtl.Approve)
		groups.POST("/:groupId/reject", approvalCtl.Reject)
	}
	r.POST("/api/admin/logs/:logId/return", authMW, adminMW, approvalCtl.Return)

	// ------------------------------
	// 报表 / 流水 / 问卷（仅管理员）
	// ------------------------------
	adminReports := r.Group("/api/admin", authMW, adminMW)
	{
		adminReports.GET("/reports/export", reportCtl.Export)
		adminReports.GET("/ledger", reportCtl.ListLedger)
		adminReports.GET("/evaluations", reportCtl.ListEvaluations)
	}

	// ------------------------------
	// 用户管理 + 邀请（仅管理员）
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers)
		users.GET("/:id", userCtl.GetUser)
		users.PUT("/:id/admin", userCtl.SetAdmin)
		users.DELETE("/:id", userCtl.DeleteUser)
	}
	r.POST("/api/admin/invites", authMW, adminMW, inviteCtl.CreateInvite)
}
