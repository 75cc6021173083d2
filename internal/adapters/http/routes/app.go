package routes

import (
	"library-ledger/internal/adapters/http/middleware"
	"library-ledger/internal/config"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewApp creates the fiber app with its middlewares. Routes are added by
// Setup.
func NewApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Library Ledger API v1.0 [" + cfg.Service + "]",
		ErrorHandler: middleware.CustomErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	middleware.Setup(app, cfg, log)
	return app
}
