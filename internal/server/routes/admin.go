package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/devcache/devcache/internal/cache"
	"github.com/devcache/devcache/internal/logging"
	"github.com/devcache/devcache/internal/server"
)

// RegisterAdminRoutes 暴露 /-/ 诊断与维护接口，供开发者查看统计和触发后台清理。
func RegisterAdminRoutes(app *fiber.App, store *cache.Store, logger logrus.FieldLogger) {
	if app == nil || store == nil {
		return
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	app.Get("/-/stats", func(c fiber.Ctx) error {
		entries := store.EntryCount()
		bytes := store.TotalBytes()
		return c.JSON(fiber.Map{
			"root":              store.Root(),
			"entries":           entries,
			"total_bytes":       bytes,
			"total_size":        logging.HumanBytes(bytes),
			"permanent_entries": len(store.PermanentEntries()),
		})
	})

	app.Get("/-/entries", func(c fiber.Ctx) error {
		list := store.AllEntries()
		if c.Query("permanent") == "true" {
			list = store.PermanentEntries()
		}
		return c.JSON(fiber.Map{
			"entries": encodeEntries(store, list),
		})
	})

	app.Post("/-/clear", func(c fiber.Ctx) error {
		scope := c.Query("scope", "all")
		switch scope {
		case "all":
			store.Clear()
		case "expired":
			store.ClearExpired()
		default:
			return fiber.NewError(fiber.StatusBadRequest, "unsupported_scope")
		}
		logger.WithFields(logrus.Fields{
			"action":     "cache_clear",
			"scope":      scope,
			"request_id": server.RequestID(c),
		}).Info("cache clear scheduled")
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"scope": scope})
	})

	app.Post("/-/clear/:type", func(c fiber.Ctx) error {
		typ, err := cache.ParseType(c.Params("type"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unsupported_type")
		}
		store.ClearByType(typ)
		logger.WithFields(logrus.Fields{
			"action":     "cache_clear",
			"scope":      typ.String(),
			"request_id": server.RequestID(c),
		}).Info("cache clear scheduled")
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"scope": typ.String()})
	})
}
