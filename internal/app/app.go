package app

import (
	"database/sql"
	"fmt"
	"log"

	"taskcontrol/internal/config"
	"taskcontrol/internal/handlers"
	"taskcontrol/internal/middleware"
	"taskcontrol/internal/pdf"
	"taskcontrol/internal/repositories"
	"taskcontrol/internal/routes"
	"taskcontrol/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "taskcontrol/docs"
)

func Run() {
	cfg := config.LoadConfig()

	middleware.SetJWTKey(cfg.JWT.Secret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("БД недоступна: ", err)
	}

	// === Repos ===
	txr := repositories.NewTxRunner(db)
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	boardRepo := repositories.NewBoardRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	labelRepo := repositories.NewLabelRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// === Services ===
	var emailService services.EmailService
	if cfg.Email.Enabled {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	var tgService *services.TelegramService
	if cfg.Telegram.Enabled {
		tgService, err = services.NewTelegramService(cfg.Telegram.BotToken)
		if err != nil {
			// уведомления не критичны, работаем без них
			log.Printf("[app] telegram disabled: %v", err)
			tgService = nil
		}
	}

	authService := services.NewAuthService(userRepo, emailService, cfg.JWT)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(txr, projectRepo, boardRepo, userRepo)
	boardService := services.NewBoardService(boardRepo, taskRepo, projectService)
	labelService := services.NewLabelService(labelRepo, taskRepo, projectService)
	taskService := services.NewTaskService(txr, taskRepo, projectRepo, labelRepo, commentRepo, activityRepo)
	commentService := services.NewCommentService(txr, commentRepo, taskRepo, activityRepo)

	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir)
	reportService := services.NewReportService(reportRepo, projectRepo, projectService, pdfGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	boardHandler := handlers.NewBoardHandler(boardService)
	taskHandler := handlers.NewTaskHandler(taskService, tgService, emailService, userRepo)
	labelHandler := handlers.NewLabelHandler(labelService)
	commentHandler := handlers.NewCommentHandler(commentService)
	reportHandler := handlers.NewReportHandler(reportService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		projectHandler,
		boardHandler,
		taskHandler,
		labelHandler,
		commentHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
