package main

import (
	"Gin_postgres_redis_media_stock/app"
	"Gin_postgres_redis_media_stock/config"
	"Gin_postgres_redis_media_stock/db"
	"Gin_postgres_redis_media_stock/routes"
	"context"
	"log"
	"os"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	// 空库启动时给 BOOTSTRAP_EMAIL 发第一张管理员邀请
	app.BootstrapFirstAdmin(context.Background(), application.Config, db.NewRepo(application.DB))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
