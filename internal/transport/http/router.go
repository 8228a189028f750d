package rest

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Gunvolt24/farm_orders/internal/catalog"
	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/ports"
	"github.com/Gunvolt24/farm_orders/pkg/httpx"
	"github.com/Gunvolt24/farm_orders/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Лимиты выдачи каталога.
const (
	catalogDefaultLimit = 500
	catalogMaxLimit     = 1000
	maxBodyBytes        = 1 << 20
)

// Contact — контактный блок фермы для GET /contact.
type Contact struct {
	Organization string `json:"organization"`
	Address      string `json:"address"`
	Email        string `json:"email"`
}

// Handler — HTTP-обработчики сценариев заказа.
type Handler struct {
	service       ports.OrderService
	log           ports.Logger
	reqTimeout    time.Duration
	adminPassword string
	contact       Contact
}

// Option — необязательная настройка Handler.
type Option func(*Handler)

// WithAdminPassword — пароль для отправки заказа по почте ("" — отправка отключена).
func WithAdminPassword(p string) Option { return func(h *Handler) { h.adminPassword = p } }

// WithContact — контактный блок.
func WithContact(c Contact) Option { return func(h *Handler) { h.contact = c } }

// NewHandler — конструктор; reqTimeout <= 0 — без собственного таймаута обработки.
func NewHandler(service ports.OrderService, log ports.Logger, reqTimeout time.Duration, opts ...Option) *Handler {
	h := &Handler{service: service, log: log, reqTimeout: reqTimeout}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter — gin с recovery, request-id, логированием и (если задано имя сервиса) трейсингом.
func NewRouter(h *Handler, staticDir, serviceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/catalog", h.getCatalog)
	r.GET("/contact", h.getContact)
	r.POST("/order/preview", h.previewOrder)
	r.POST("/order/document", h.orderDocument)
	r.POST("/order/email", httpx.AdminGate(h.adminPassword), h.emailOrder)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}
	return r
}

func (h *Handler) getCatalog(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	cat, err := h.service.Catalog(ctx)
	if err != nil {
		h.writeError(c, "Catalog", err)
		return
	}

	limit, offset := httpx.ParseLimitOffset(c, catalogDefaultLimit, catalogMaxLimit)
	total := len(cat.Products)
	// offset может быть любым неотрицательным: считаем конец без переполнения
	start := min(offset, total)
	end := start + min(limit, total-start)
	products := cat.Products[start:end]

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"warnings": cat.Warnings,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) getContact(c *gin.Context) {
	c.JSON(http.StatusOK, h.contact)
}

func (h *Handler) previewOrder(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	preview, err := h.service.Preview(ctx, req)
	if err != nil {
		h.writeError(c, "Preview", err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *Handler) orderDocument(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	doc, err := h.service.Document(ctx, req)
	if err != nil {
		h.writeError(c, "Document", err)
		return
	}
	httpx.Attachment(c, doc.MediaType, doc.FileName, doc.Bytes)
}

func (h *Handler) emailOrder(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.service.Email(ctx, req)
	if err != nil {
		h.writeError(c, "Email", err)
		return
	}

	status := http.StatusOK
	if !out.Result.OK {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"success":   out.Result.OK,
		"message":   out.Result.Message,
		"file_name": out.Document.FileName,
		"summary": gin.H{
			"line_count":  out.Document.Preview.LineCount,
			"total_label": out.Document.Preview.TotalLabel,
		},
	})
}

// ---- функции-помощники ----

// requestContext — контекст запроса с таймаутом обработки (если задан).
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.reqTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.reqTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

// bindRequest — строгий разбор тела запроса; при ошибке пишет 400.
func (h *Handler) bindRequest(c *gin.Context) (domain.OrderRequest, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return domain.OrderRequest{}, false
	}

	var req domain.OrderRequest
	if err := validate.DecodeStrict(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.OrderRequest{}, false
	}
	return req, true
}

// writeError — отображение ошибок сценария в HTTP-статусы.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	var fe *validate.FieldError
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Message, "field": fe.Field})
	case errors.Is(err, validate.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsEmptyOrder(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Aucun produit sélectionné."})
	case catalog.IsCatalogError(err):
		h.log.Warnf(ctx, "%s: catalog unavailable: %v", op, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": catalog.UserMessage(err)})
	default:
		h.log.Errorf(ctx, "%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
