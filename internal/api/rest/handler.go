package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "recognition-bot/internal/application"
	"recognition-bot/internal/domain/entity"
)

const (
	maxUploadBytes = 20 << 20
	callerHeader   = "X-Caller-ID"
	anonymous      = "api:anonymous"
)

// HealthChecker проверка доступности внешнего классификатора
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Handler REST-доступ к распознаванию
type Handler struct {
	recognitions *app.RecognitionService
	health       HealthChecker
	maxUpload    int64
}

// NewHandler health может быть nil, тогда /health проверяет только сам сервис
func NewHandler(recognitions *app.RecognitionService, health HealthChecker) *Handler {
	return &Handler{recognitions: recognitions, health: health, maxUpload: maxUploadBytes}
}

// Register вешает маршруты на роутер
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/recognitions", h.Create)
		v1.GET("/recognitions", h.List)
		v1.GET("/recognitions/:id", h.GetByID)
	}
}

// NewRouter gin-роутер со всеми маршрутами
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.MaxMultipartMemory = maxUploadBytes
	h.Register(router)
	return router
}

// Create принимает изображение в multipart-поле "file"
// Тело запроса ограничено maxUpload ещё до разбора multipart.
func (h *Handler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.recognitions.Recognize(c.Request.Context(), data, callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// List история распознаваний вызывающего: ?limit=&offset=
func (h *Handler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recs, err := h.recognitions.History(c.Request.Context(), callerID(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	if recs == nil {
		recs = []*entity.Recognition{}
	}

	c.JSON(http.StatusOK, gin.H{"items": recs, "count": len(recs)})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recognition id"})
		return
	}

	rec, err := h.recognitions.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health.CheckHealth(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "classifier": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrEmptyImage):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrClassifierUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		slog.Error("rest: request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func callerID(c *gin.Context) string {
	if id := c.GetHeader(callerHeader); id != "" {
		return id
	}
	if id := c.PostForm("caller"); id != "" {
		return id
	}
	if id := c.Query("caller"); id != "" {
		return id
	}
	return anonymous
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Debug("rest: request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}
