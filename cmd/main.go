package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"threads-backend/config"
	"threads-backend/internal/api/admin"
	"threads-backend/internal/api/interaction"
	"threads-backend/internal/api/notification"
	"threads-backend/internal/api/post"
	"threads-backend/internal/api/search"
	"threads-backend/internal/api/user"
	"threads-backend/internal/common"
	apperrors "threads-backend/internal/errors"
	"threads-backend/internal/middleware"
	"threads-backend/internal/repository/mysql"
	"threads-backend/internal/service"
	"threads-backend/internal/storage"
	"threads-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接，启动阶段允许等待数据库就绪
	if err := common.WithRetry(db.Ping, 5); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("https_link", util.ValidateHTTPSLink)
	}

	// 确保上传文件夹存在
	ensureUploadsFolder()

	// 按配置选择存储后端
	fileStorage, err := storage.New(config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	interactionRepo := mysql.NewInteractionRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	adminRepo := mysql.NewAdminRepository(db)

	userService := service.NewUserService(userRepo, notificationRepo, config.AppConfig.AdminUserID)
	postService := service.NewPostService(postRepo, notificationRepo)
	interactionService := service.NewInteractionService(interactionRepo, postRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, config.AppConfig.AdminUserID)
	searchService := service.NewSearchService(userRepo)
	adminService := service.NewAdminService(adminRepo, userRepo, interactionRepo)

	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, fileStorage)
	userHandler := user.NewUserHandler(userService, postService)
	postHandler := post.NewPostHandler(postService)
	interactionHandler := interaction.NewInteractionHandler(interactionService)
	notificationHandler := notification.NewNotificationHandler(notificationService)
	searchHandler := search.NewSearchHandler(searchService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()
	errorAnalytics := apperrors.NewErrorAnalytics()
	adminHandler := admin.NewAdminHandler(adminService, notificationService, errorMonitor, errorAnalytics)

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor, errorAnalytics))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}

	r.Use(cors.New(corsConfig))

	// 静态文件的 CORS 单独处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 配置静态文件服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(userService))
		{
			authorized.POST("/logout", authHandler.Logout)
			authorized.POST("/refresh-token", authHandler.RefreshToken)
			authorized.POST("/account-setup", authHandler.AccountSetup)

			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/avatar", profileHandler.UploadAvatar)

			// 帖子
			authorized.POST("/posts", postHandler.Create)
			authorized.POST("/posts/:id/replies", postHandler.Reply)
			authorized.DELETE("/posts/:id", postHandler.Delete)

			// 切换操作
			authorized.POST("/posts/:id/like", interactionHandler.ToggleLike)
			authorized.POST("/posts/:id/repost", interactionHandler.ToggleRepost)
			authorized.POST("/users/:id/follow", interactionHandler.ToggleFollow)
			authorized.GET("/users/:id/follow/status", interactionHandler.IsFollowing)

			// 通知
			authorized.GET("/notifications", notificationHandler.List)
			authorized.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		// 公开读路由
		api.GET("/posts", postHandler.Feed)
		api.GET("/posts/:id", postHandler.Info)
		api.GET("/posts/:id/thread", postHandler.Thread)
		api.GET("/posts/:id/quoted", postHandler.Quoted)

		api.GET("/users", userHandler.AllUsers)

		// 个人主页按用户名访问，与按ID操作的 /users/:id 路由分开
		api.GET("/profiles/:username", userHandler.GetUserInfo)
		api.GET("/profiles/:username/posts", userHandler.GetUserPosts)
		api.GET("/profiles/:username/replies", userHandler.GetUserReplies)
		api.GET("/profiles/:username/reposts", userHandler.GetUserReposts)

		api.GET("/search", searchHandler.Search)

		// 管理员路由组
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(userService), middleware.AdminMiddleware(userService))
		{
			adminRoutes.GET("/stats", adminHandler.GetSystemStats)
			adminRoutes.GET("/errors", adminHandler.GetErrorStats)
			adminRoutes.POST("/broadcast", adminHandler.Broadcast)
			adminRoutes.POST("/messages", adminHandler.SendMessage)
			adminRoutes.PUT("/users/:id/role", adminHandler.SetUserRole)
			adminRoutes.PUT("/users/:id/verified", adminHandler.SetUserVerified)
			adminRoutes.DELETE("/seed-data", adminHandler.PurgeSeedData)
		}
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}
