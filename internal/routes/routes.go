package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"procurement-system/internal/controllers"
	"procurement-system/internal/repositories"
	"procurement-system/internal/services"
	"procurement-system/pkg/config"
	"procurement-system/pkg/middleware"
	"procurement-system/pkg/service"
)

type Loggers struct {
	Main         *zap.Logger
	Auth         *zap.Logger
	Requirements *zap.Logger
	Cms          *zap.Logger
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. REPOSITORIES ---
	userRepo := repositories.NewUserRepository(dbConn)
	permissionRepo := repositories.NewPermissionRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	requirementRepo := repositories.NewRequirementRepository(dbConn)
	approvalRepo := repositories.NewApprovalRepository(dbConn)
	cmsRepo := repositories.NewCmsRepository(dbConn)
	auditRepo := repositories.NewAuditRepository(dbConn)

	// --- 2. SERVICES ---
	policy := services.NewAccessPolicyService(permissionRepo, cacheRepo, loggers.Main, cfg.Auth.PermissionsCacheTTL)
	authService := services.NewAuthService(userRepo, jwtSvc, loggers.Auth)
	requirementService := services.NewRequirementService(txManager, requirementRepo, approvalRepo, auditRepo, policy, loggers.Requirements)
	cmsService := services.NewCmsService(cmsRepo, requirementRepo, auditRepo, policy, loggers.Cms)

	// --- 3. CONTROLLERS ---
	authController := controllers.NewAuthController(authService, loggers.Auth)
	requirementController := controllers.NewRequirementController(requirementService, loggers.Requirements)
	cmsController := controllers.NewCmsController(cmsService, loggers.Cms)

	// --- 4. ROUTERS ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authController)
	runRequirementRouter(secureGroup, requirementController)
	runCmsRouter(secureGroup, cmsController)
}
