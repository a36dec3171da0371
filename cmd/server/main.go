// Package main 是应用程序的入口点。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bench-match-go/internal/bootstrap"
	"bench-match-go/internal/config"
	"bench-match-go/internal/handler"
	"bench-match-go/internal/middleware"
	"bench-match-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 组装依赖
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatal("初始化依赖失败", err)
	}
	defer app.Close()

	// 4. 启动后台 Kafka 消费者
	consumerDone := make(chan struct{})
	if app.Consumer != nil {
		go func() {
			defer close(consumerDone)
			if err := app.Consumer.Run(ctx); err != nil {
				log.Error("Kafka 消费者异常退出", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Metrics(app.Metrics), gin.Recovery())

	requirementHandler := handler.NewRequirementHandler(app.Requirements)
	searchHandler := handler.NewSearchHandler(app.Search, app.Shortlists)
	var publisher handler.TaskPublisher
	if app.Producer != nil {
		publisher = app.Producer
	}
	adminHandler := handler.NewAdminHandler(app.Corpus, publisher)
	dashboardHandler := handler.NewDashboardHandler(app.Dashboard)

	// 6. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		requirements := apiV1.Group("/requirements")
		{
			requirements.POST("", requirementHandler.Create)
			requirements.GET("", requirementHandler.List)
			requirements.GET("/:id", requirementHandler.Get)
		}

		apiV1.POST("/search", searchHandler.Search)
		apiV1.GET("/shortlist/:requirementId", searchHandler.Shortlist)
		apiV1.GET("/breakdown/:requirementId/:employeeId", searchHandler.Breakdown)
		apiV1.GET("/dashboard", dashboardHandler.Summary)

		admin := apiV1.Group("/admin")
		{
			admin.POST("/corpus/sync", adminHandler.SyncCorpus)
		}
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"status": "ok"}})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 服务监听失败: %s", err)
		}
	}()

	<-ctx.Done()
	log.Info("接收到停机信号，正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}

	// ctx 已取消，消费者会在当前消息处理完后退出
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warnf("等待 Kafka 消费者退出超时")
	}
	log.Info("服务已优雅关闭")
}
