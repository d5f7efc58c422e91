package server

import (
	"context"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/config"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/order"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/infra/mq"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/infra/redis"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/intent"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/middleware"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/repository/mysql"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/service"
)

// RegisterRoutes wires infrastructure, repositories and services, and
// registers all HTTP routes.
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	catalogRepo := mysql.NewCatalogRepository(db)
	cartStore := mysql.NewCartStore(db)

	catalogSvc := service.NewCatalogService(catalogRepo, redisClient, cfg.Redis.CacheTTLSeconds)
	publisher := mq.NewPublisher(mqConn, cfg.RabbitMQ.Queue)
	cartSvc := service.NewCartService(cartStore, catalogSvc, publisher)

	app.Get("/", func(ctx iris.Context) {
		_, _ = ctx.WriteString("Theoeats backend is running!")
	})

	bucket := middleware.NewTokenBucket(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	app.Post("/webhook", middleware.RateLimit(bucket), webhookHandler(cartSvc))

	api := app.Party("/api")

	api.Get("/health", func(ctx iris.Context) {
		_ = ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	api.Get("/stats", func(ctx iris.Context) {
		_ = ctx.JSON(service.GetMonitor().Snapshot())
	})

	api.Get("/menu", func(ctx iris.Context) {
		items, err := catalogSvc.Menu(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": "menu unavailable"})
			return
		}
		_ = ctx.JSON(iris.Map{"code": 0, "data": items})
	})

	api.Get("/cart/{session}", func(ctx iris.Context) {
		sessionID := ctx.Params().Get("session")
		view, err := cartSvc.View(ctx.Request().Context(), sessionID)
		if err != nil {
			if err == order.ErrNoActiveOrder {
				ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "no active order for session"})
				return
			}
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": "cart unavailable"})
			return
		}
		_ = ctx.JSON(view)
	})
}

// webhookHandler dispatches the Dialogflow fulfillment envelope on intent
// name. The endpoint always answers 200 with a fulfillmentText body; every
// failure mode is reported in-band as text.
func webhookHandler(cartSvc *service.CartService) iris.Handler {
	type op func(ctx context.Context, sessionID string, params intent.Params) string

	intents := map[string]op{
		"order.add":    cartSvc.Add,
		"order.remove": cartSvc.Remove,
		"order.complete": func(ctx context.Context, sessionID string, _ intent.Params) string {
			return cartSvc.Complete(ctx, sessionID)
		},
		"order.cancel":                          cartSvc.Cancel,
		"track.order":                           cartSvc.Track,
		"track.order-context: ongoing-tracking": cartSvc.Track,
	}

	fulfill := func(ctx iris.Context, text string) {
		_ = ctx.JSON(intent.WebhookResponse{FulfillmentText: text})
	}

	return func(ctx iris.Context) {
		service.GetMonitor().RecordWebhook()

		var req intent.WebhookRequest
		if err := ctx.ReadJSON(&req); err != nil {
			zap.L().Warn("malformed webhook payload", zap.Error(err))
			fulfill(ctx, "Invalid request format received.")
			return
		}

		name := req.QueryResult.Intent.DisplayName
		sessionID := req.SessionID()
		if sessionID == "" || !intent.ValidSessionID(sessionID) {
			zap.L().Warn("could not extract session id",
				zap.String("session_path", req.Session))
			fulfill(ctx, "Session ID could not be extracted.")
			return
		}

		handler, ok := intents[name]
		if !ok {
			service.GetMonitor().RecordUnknownIntent()
			zap.L().Warn("unknown intent", zap.String("intent", name))
			fulfill(ctx, "I don't understand that command. Available commands are: add order, remove items, complete order, track order, or cancel order.")
			return
		}

		zap.L().Info("processing intent",
			zap.String("intent", name),
			zap.String("session_id", sessionID))
		fulfill(ctx, handler(ctx.Request().Context(), sessionID, req.QueryResult.Parameters))
	}
}
