package http

import (
	"PersonaLab/internal/config"
	"PersonaLab/internal/initial"
	adminMiddleware "PersonaLab/internal/middleware/admin"
	botService "PersonaLab/internal/modules/bot/application/service"
	botPersistence "PersonaLab/internal/modules/bot/infrastructure/persistence"
	botHandler "PersonaLab/internal/modules/bot/interface/http"
	chatService "PersonaLab/internal/modules/chat/application/service"
	chatCache "PersonaLab/internal/modules/chat/infrastructure/cache"
	"PersonaLab/internal/modules/chat/infrastructure/delivery"
	"PersonaLab/internal/modules/chat/infrastructure/history"
	"PersonaLab/internal/modules/chat/infrastructure/llm"
	"PersonaLab/internal/modules/chat/infrastructure/moderation"
	"PersonaLab/internal/modules/chat/infrastructure/mq"
	"PersonaLab/internal/modules/chat/infrastructure/mq/kafka"
	chatPersistence "PersonaLab/internal/modules/chat/infrastructure/persistence"
	"PersonaLab/internal/modules/chat/infrastructure/pipeline"
	chatHandler "PersonaLab/internal/modules/chat/interface/http"
	"PersonaLab/internal/modules/chat/interface/scheduler"
	"PersonaLab/pkg/back"
	"PersonaLab/pkg/ssl"
	"PersonaLab/pkg/util/myjwt"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var GE *gin.Engine

// Sweeper 空闲跟进轮询器，由 main 启停
var Sweeper *scheduler.FollowupSweeper

// EventPublisher 轮次事件发布器，由 main 负责关闭
var EventPublisher mq.Publisher

func init() {
	conf := config.GetConfig()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	botRepo := botPersistence.NewBotRepository(initial.GormDB)
	personaRepo := botPersistence.NewPersonaRepository(initial.GormDB)
	modelRepo := botPersistence.NewModelRepository(initial.GormDB)
	settingRepo := botPersistence.NewModerationSettingRepository(initial.GormDB)
	convRepo := chatPersistence.NewConversationRepository(initial.GormDB)
	uttRepo := chatPersistence.NewUtteranceRepository(initial.GormDB)
	keystrokeRepo := chatPersistence.NewKeystrokeRepository(initial.GormDB)

	cache := chatCache.NewRedisCache()
	historyStore := history.NewStore(cache, uttRepo)
	registry := llm.NewRegistry(conf)
	gate := moderation.NewGate(moderation.NewOpenAIClassifier(conf), settingRepo)

	var events *mq.TurnEventPublisher
	if len(conf.KafkaConfig.Brokers) > 0 {
		publisher, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{
			Brokers:  conf.KafkaConfig.Brokers,
			ClientID: conf.KafkaConfig.ClientID,
		})
		if err != nil {
			zlog.Error("Kafka 初始化失败，轮次事件发布停用: " + err.Error())
		} else {
			EventPublisher = publisher
			events = mq.NewTurnEventPublisher(publisher, conf.KafkaConfig.TurnTopic)
		}
	}

	turns, err := pipeline.NewTurnPipeline(
		botRepo, convRepo, uttRepo,
		historyStore, cache, gate,
		&pipeline.RegistryResolver{Registry: registry},
		events,
	)
	if err != nil {
		zlog.Fatal("对话流水线构建失败: " + err.Error())
	}

	planner := delivery.NewPlanner(nil)
	chatSvc := chatService.NewChatService(turns, planner)
	conversationSvc := chatService.NewConversationService(botRepo, convRepo, uttRepo, historyStore, nil)
	followupSvc := chatService.NewFollowupService(botRepo, convRepo, uttRepo, cache, turns, planner)
	keystrokeSvc := chatService.NewKeystrokeService(keystrokeRepo)

	botSvc := botService.NewBotService(botRepo, personaRepo, modelRepo)
	personaSvc := botService.NewPersonaService(personaRepo)
	catalogSvc := botService.NewCatalogService(modelRepo)
	moderationSvc := botService.NewModerationService(settingRepo)

	chatH := chatHandler.NewChatHandler(chatSvc)
	conversationH := chatHandler.NewConversationHandler(conversationSvc)
	followupH := chatHandler.NewFollowupHandler(followupSvc)
	keystrokeH := chatHandler.NewKeystrokeHandler(keystrokeSvc)

	botH := botHandler.NewBotHandler(botSvc)
	personaH := botHandler.NewPersonaHandler(personaSvc)
	catalogH := botHandler.NewCatalogHandler(catalogSvc)
	moderationH := botHandler.NewModerationHandler(moderationSvc)

	Sweeper = scheduler.NewFollowupSweeper(convRepo, followupSvc, conf.SweeperConfig)

	GE.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	GE.POST("/conversation/initialize", conversationH.Initialize)
	GE.POST("/chat", chatH.Chat)
	GE.POST("/followup", followupH.Followup)
	GE.POST("/keystroke", keystrokeH.Record)

	GE.POST("/admin/login", adminLogin)

	authed := GE.Group("/admin")
	authed.Use(adminMiddleware.Auth())
	authed.POST("/bots", botH.Create)
	authed.GET("/bots", botH.List)
	authed.GET("/bots/:name", botH.Get)
	authed.PUT("/bots/:name", botH.Update)
	authed.DELETE("/bots/:name", botH.Delete)
	authed.POST("/personas", personaH.Create)
	authed.GET("/personas", personaH.List)
	authed.GET("/personas/:name", personaH.Get)
	authed.PUT("/personas/:name", personaH.Update)
	authed.DELETE("/personas/:name", personaH.Delete)
	authed.GET("/catalog/providers", catalogH.ListProviders)
	authed.GET("/catalog/models", catalogH.ListModels)
	authed.GET("/moderation", moderationH.Status)
	authed.PUT("/moderation", moderationH.Toggle)
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	conf := config.GetConfig()
	if conf.AdminConfig.Username == "" ||
		req.Username != conf.AdminConfig.Username ||
		req.Password != conf.AdminConfig.Password {
		back.Error(c, xerr.Unauthorized, "用户名或密码错误")
		return
	}

	token, err := myjwt.GenerateToken(req.Username, req.Username)
	if err != nil {
		zlog.Error("签发 token 失败: " + err.Error())
		back.Error(c, xerr.InternalServerError, xerr.ErrServerError.Message)
		return
	}
	back.Success(c, gin.H{"token": token})
}
