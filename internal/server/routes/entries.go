package routes

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/devcache/devcache/internal/cache"
	"github.com/devcache/devcache/internal/logging"
	"github.com/devcache/devcache/internal/server"
)

type entryHandler struct {
	store  *cache.Store
	writer cache.TTLWriter
	logger logrus.FieldLogger
}

// RegisterEntryRoutes 暴露 /v1/entries 读写接口，所有请求最终落到 cache.Store。
func RegisterEntryRoutes(app *fiber.App, store *cache.Store, writer cache.TTLWriter, logger logrus.FieldLogger) {
	if app == nil || store == nil {
		return
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &entryHandler{store: store, writer: writer, logger: logger}

	app.Put("/v1/entries/:key", h.put)
	app.Head("/v1/entries/:key", h.head)
	app.Get("/v1/entries/:key", h.get)
	app.Delete("/v1/entries/:key", h.remove)
	app.Delete("/v1/entries", h.removeMany)
}

func (h *entryHandler) put(c fiber.Ctx) error {
	key := c.Params("key")
	if !cache.ValidKey(key) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid_key")
	}
	typ, err := cache.ParseType(c.Query("type", "string"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported_type")
	}
	ttl, err := parseTTL(c.Query("ttl"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid_ttl")
	}
	value, err := valueFromBody(typ, c.Body())
	if err != nil {
		h.logger.WithFields(logging.EntryFields("http_put", key, typ.String(), false)).
			WithField("request_id", server.RequestID(c)).
			WithError(err).Debug("rejecting cache payload")
		return fiber.NewError(fiber.StatusBadRequest, "invalid_payload")
	}

	var ok bool
	if ttl == nil {
		ok = h.writer.Put(key, value)
	} else {
		ok = h.writer.PutFor(key, value, *ttl)
	}
	if !ok {
		return fiber.NewError(fiber.StatusInternalServerError, "cache_write_failed")
	}

	entry, found := h.store.Entry(key)
	if !found {
		return fiber.NewError(fiber.StatusInternalServerError, "cache_write_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(encodeEntry(entry, h.store.EntrySize(key)))
}

func (h *entryHandler) get(c fiber.Ctx) error {
	key := c.Params("key")
	if !cache.ValidKey(key) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid_key")
	}
	entry, payload, ok := h.store.Load(key)
	h.logger.WithFields(logging.EntryFields("http_get", key, entry.Type.String(), ok)).
		WithField("request_id", server.RequestID(c)).
		Debug("cache lookup")
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "entry_not_found")
	}

	c.Set("X-Cache-Type", entry.Type.String())
	c.Set("X-Cache-Saved-At", strconv.FormatInt(entry.SavedAt, 10))
	c.Set("X-Cache-Valid-For", strconv.FormatInt(entry.ValidFor, 10))
	c.Set("X-Cache-Expires-In", expiresIn(h.writer.Remaining(entry)))
	c.Set(fiber.HeaderContentType, contentType(entry.Type, payload))
	return c.Send(payload)
}

// expiresIn 以毫秒输出剩余有效期，永久条目输出 -1。
func expiresIn(left time.Duration) string {
	if left < 0 {
		return "-1"
	}
	return strconv.FormatInt(left.Milliseconds(), 10)
}

func (h *entryHandler) head(c fiber.Ctx) error {
	if h.store.Contains(c.Params("key")) {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.SendStatus(fiber.StatusNotFound)
}

func (h *entryHandler) remove(c fiber.Ctx) error {
	key := c.Params("key")
	if !cache.ValidKey(key) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid_key")
	}
	if !h.store.Remove(key) {
		return fiber.NewError(fiber.StatusNotFound, "entry_not_found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type removeRequest struct {
	Keys []string `json:"keys"`
}

func (h *entryHandler) removeMany(c fiber.Ctx) error {
	var req removeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid_payload")
	}
	before := h.store.EntryCount()
	h.store.RemoveMany(req.Keys...)
	return c.JSON(fiber.Map{
		"requested": len(req.Keys),
		"removed":   before - h.store.EntryCount(),
	})
}
