package main

import (
  "fmt"
  "os"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/utils"
  "github.com/yungbote/marketbridge-backend/internal/db"
  "github.com/yungbote/marketbridge-backend/internal/legaldocs"
  "github.com/yungbote/marketbridge-backend/internal/repos"
  "github.com/yungbote/marketbridge-backend/internal/services"
  "github.com/yungbote/marketbridge-backend/internal/handlers"
  "github.com/yungbote/marketbridge-backend/internal/middleware"
  "github.com/yungbote/marketbridge-backend/internal/server"
  redisclient "github.com/yungbote/marketbridge-backend/internal/clients/redis"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  docsDir := utils.GetEnv("LEGAL_DOCS_DIR", "./content/legal", log)
  manifestPath := utils.GetEnv("LEGAL_MANIFEST_PATH", "./content/legal/manifest.yaml", log)
  publicBaseURL := utils.GetEnv("LEGAL_PUBLIC_BASE_URL", "http://localhost:8080", log)
  populationCap := utils.GetEnvAsInt("COMPLIANCE_POPULATION_CAP", 10000, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  vendorRepo := repos.NewVendorRepo(thePG, log)
  policyRepo := repos.NewPublishedPolicyRepo(thePG, log)
  acceptanceRepo := repos.NewPolicyAcceptanceRepo(thePG, log)
  declarationRepo := repos.NewDeclarationRepo(thePG, log)
  notificationRepo := repos.NewNotificationRepo(thePG, log)
  mailJobRepo := repos.NewMailJobRepo(thePG, log)

  // Legal document store + renderer
  log.Info("Setting up legal document store from main...")
  docStore := legaldocs.NewStore(log, legaldocs.OSSource(), docsDir, manifestPath)
  renderer := legaldocs.NewRenderer(log, docStore)

  // Mail queue
  var mailQueue services.MailQueue
  redisQueue, err := redisclient.NewMailQueue(log)
  if err != nil {
    log.Warn("Could not init redis mail queue, campaigns will only persist mail jobs", "error", err)
  } else {
    mailQueue = redisQueue
    defer redisQueue.Close()
  }

  // Services
  log.Info("Setting up Services from main...")
  policyService := services.NewPolicyService(thePG, log, policyRepo)
  documentService := services.NewDocumentService(log, renderer, publicBaseURL)
  acceptanceService := services.NewAcceptanceService(thePG, log, acceptanceRepo, declarationRepo, policyService, renderer)
  complianceService := services.NewComplianceService(thePG, log, policyService, acceptanceRepo, declarationRepo, userRepo, vendorRepo, populationCap)
  campaignService := services.NewCampaignService(thePG, log, complianceService, notificationRepo, mailJobRepo, mailQueue)
  notificationService := services.NewNotificationService(thePG, log, notificationRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  documentHandler := handlers.NewDocumentHandler(log, documentService)
  acceptanceHandler := handlers.NewAcceptanceHandler(log, acceptanceService)
  notificationHandler := handlers.NewNotificationHandler(log, notificationService)
  policyHandler := handlers.NewPolicyHandler(log, policyService)
  complianceHandler := handlers.NewComplianceHandler(log, complianceService)
  campaignHandler := handlers.NewCampaignHandler(log, campaignService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:      authMiddleware,
    DocumentHandler:     documentHandler,
    AcceptanceHandler:   acceptanceHandler,
    NotificationHandler: notificationHandler,
    PolicyHandler:       policyHandler,
    ComplianceHandler:   complianceHandler,
    CampaignHandler:     campaignHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
