package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Shashika071/SPD-New-Final-sub000/api/swagger"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/handler"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/middleware"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/repository"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/service"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/cache"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/config"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/database"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/logger"
	corsmiddleware "github.com/Shashika071/SPD-New-Final-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Shashika071/SPD-New-Final-sub000/pkg/middleware/requestid"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/storage"
)

// @title LMS API
// @version 1.0.0
// @description Enrollment-gated class, resource and assessment backend.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	uploads, err := storage.NewLocalStorage(cfg.Uploads.StorageDir, cfg.Uploads.PublicBaseURL)
	if err != nil {
		logr.Fatal("failed to init upload storage", zap.Error(err))
	}

	var cacheRepo *repository.CacheRepository
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	answerRepo := repository.NewAnswerRepository(db)

	guard := service.NewOwnershipGuard(classRepo)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	classService := service.NewClassService(classRepo, guard, validate, logr)
	resourceService := service.NewResourceService(questionRepo, assignmentRepo, resourceRepo, guard, validate, logr)

	var catalogCache service.CatalogCache
	if cacheRepo != nil {
		catalogCache = cacheRepo
	}
	metricsService := service.NewMetricsService()
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, classRepo, catalogCache, cfg.Catalog.CacheTTL, cfg.Payments.BaseURL, metricsService, validate, logr)

	submissionService := service.NewSubmissionService(
		submissionRepo, attemptRepo, answerRepo,
		questionRepo, assignmentRepo, resourceRepo,
		enrollmentRepo, enrollmentService, guard,
		metricsService, validate, logr,
	)
	predictorService := service.NewPredictorService(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, validate, logr)

	authHandler := handler.NewAuthHandler(authService)
	classHandler := handler.NewClassHandler(classService, enrollmentService)
	resourceHandler := handler.NewResourceHandler(resourceService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	submissionHandler := handler.NewSubmissionHandler(submissionService, uploads, cfg.Uploads.MaxFileSizeBytes)
	predictorHandler := handler.NewPredictorHandler(predictorService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))
	r.Static(cfg.Uploads.PublicBaseURL, uploads.Dir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		authed := auth.Group("", middleware.JWT(authService))
		authed.POST("/logout", authHandler.Logout)
		authed.PUT("/password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
		authed.PUT("/me", authHandler.UpdateProfile)
	}

	teacher := api.Group("/teacher", middleware.JWT(authService), middleware.RequireRoles(models.RoleTeacher))
	{
		teacher.POST("/classes", classHandler.Create)
		teacher.GET("/classes", classHandler.List)
		teacher.PUT("/classes/:id", classHandler.Update)
		teacher.DELETE("/classes/:id", classHandler.Delete)
		teacher.POST("/classes/:id/schedules", classHandler.AddSchedule)
		teacher.DELETE("/classes/:id/schedules/:scheduleId", classHandler.RemoveSchedule)

		teacher.POST("/classes/:id/questions", resourceHandler.AddQuestion)
		teacher.GET("/classes/:id/questions", resourceHandler.ListQuestions)
		teacher.DELETE("/questions/:id", resourceHandler.DeleteQuestion)
		teacher.POST("/classes/:id/assignments", resourceHandler.CreateAssignment)
		teacher.GET("/classes/:id/assignments", resourceHandler.ListAssignments)
		teacher.GET("/assignments/:id", resourceHandler.GetAssignment)
		teacher.DELETE("/assignments/:id", resourceHandler.DeleteAssignment)
		teacher.POST("/classes/:id/pastpapers", resourceHandler.AddPastPaper)
		teacher.GET("/classes/:id/pastpapers", resourceHandler.ListPastPapers)
		teacher.DELETE("/pastpapers/:id", resourceHandler.DeletePastPaper)
		teacher.POST("/classes/:id/videos", resourceHandler.AddVideo)
		teacher.GET("/classes/:id/videos", resourceHandler.ListVideos)
		teacher.DELETE("/videos/:id", resourceHandler.DeleteVideo)

		teacher.GET("/students", classHandler.Students)
		teacher.GET("/students/:id/enrollments", classHandler.StudentEnrollments)

		teacher.GET("/assignments/:id/submissions", submissionHandler.ListSubmissions)
		teacher.GET("/assignments/:id/submissions/export", submissionHandler.ExportSubmissions)
		teacher.GET("/submissions/:id", submissionHandler.GetSubmission)
		teacher.PUT("/submissions/:id", submissionHandler.GradeSubmission)
		teacher.GET("/questions/:id/answers", submissionHandler.ListAnswers)
		teacher.PUT("/answers/:id", submissionHandler.GradeAnswer)
	}

	student := api.Group("/student", middleware.JWT(authService), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/classes", enrollmentHandler.Catalog)
		student.GET("/classes/mine", enrollmentHandler.MyClasses)
		student.POST("/enrollments", enrollmentHandler.Enroll)
		student.POST("/enrollments/:id/complete", enrollmentHandler.CompletePayment)

		student.GET("/classes/:id/resources", submissionHandler.ClassResources)
		student.GET("/resources", submissionHandler.AllMyResources)
		student.GET("/questions/:id", submissionHandler.GetQuestion)
		student.GET("/assignments/:id", submissionHandler.GetAssignment)
		student.GET("/assignments/:id/questions", submissionHandler.GetAssignmentQuestions)
		student.POST("/questions/:id/answer", submissionHandler.SubmitAnswer)
		student.POST("/quiz/attempts", submissionHandler.AttemptQuiz)
		student.POST("/submissions", submissionHandler.SubmitAssignment)
		student.POST("/predict", predictorHandler.Predict)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
