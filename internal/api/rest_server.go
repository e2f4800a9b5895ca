// Package api — REST-интерфейс сервиса генерации текстур.
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/texgen/internal/logging"
	"github.com/annel0/texgen/internal/middleware"
	"github.com/annel0/texgen/internal/noise"
	"github.com/annel0/texgen/internal/raster"
	"github.com/annel0/texgen/internal/storage"
)

// RestServer представляет REST API сервер
type RestServer struct {
	router     *gin.Engine
	defaults   noise.Params
	cache      *storage.TextureCache
	port       string
	metrics    *ServerMetrics
	genMetrics *GenerationMetrics
	httpServer *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port     string                // порт для запуска сервера (":8090")
	Defaults noise.Params          // параметры генерации по умолчанию
	Cache    *storage.TextureCache // кэш растров; nil — кэширование выключено
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8090"
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	router.Use(otelgin.Middleware("texgen_api"))

	promMw := middleware.NewPrometheusMiddleware("texgen")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router:     router,
		defaults:   config.Defaults,
		cache:      config.Cache,
		port:       config.Port,
		metrics:    NewServerMetrics(),
		genMetrics: NewGenerationMetrics(),
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.POST("/textures", rs.handleGenerate)
		api.GET("/textures/defaults", rs.handleDefaults)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// TextureRequest — параметры запроса генерации. Незаполненные поля
// замещаются серверными значениями по умолчанию.
type TextureRequest struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Octaves     int     `json:"octaves"`
	Attenuation float64 `json:"attenuation"`
	SeedLo      uint64  `json:"seed_lo"`
	SeedHi      uint64  `json:"seed_hi"`
	Format      string  `json:"format"` // "png" (по умолчанию) или "raw"
}

// paramsFrom сливает запрос с дефолтами сервера.
func (rs *RestServer) paramsFrom(req TextureRequest) noise.Params {
	p := rs.defaults
	if req.Width > 0 {
		p.Width = req.Width
	}
	if req.Height > 0 {
		p.Height = req.Height
	}
	if req.Octaves > 0 {
		p.Octaves = req.Octaves
	}
	if req.Attenuation != 0 {
		p.Attenuation = req.Attenuation
	}
	if req.SeedLo != 0 || req.SeedHi != 0 {
		p.SeedLo = req.SeedLo
		p.SeedHi = req.SeedHi
	}
	return p
}

// handleGenerate генерирует текстуру (или берёт её из кэша) и отдаёт
// её в запрошенном формате.
func (rs *RestServer) handleGenerate(c *gin.Context) {
	// Тело читается всегда, когда оно есть: у chunked-запросов
	// ContentLength равен -1, их параметры нельзя молча игнорировать.
	// Пустое тело (io.EOF) — не ошибка, работают серверные дефолты.
	var req TextureRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса: " + err.Error()})
			return
		}
	}

	format := req.Format
	if format == "" {
		format = "png"
	}
	if format != "png" && format != "raw" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестный формат: " + format})
		return
	}

	p := rs.paramsFrom(req)
	gen, err := noise.NewGenerator(p)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	key := storage.Key(p)
	source := "generated"

	var buf []byte
	if rs.cache != nil {
		cached, hit, err := rs.cache.Get(key)
		if err != nil {
			logging.Warn("Ошибка чтения кэша: %v", err)
		}
		if hit {
			buf = cached
			source = "cache"
		}
	}

	if buf == nil {
		buf = gen.Raster()
		if rs.cache != nil {
			if err := rs.cache.Put(key, buf); err != nil {
				// Кэш — ускорение, не условие корректности.
				logging.Warn("Ошибка записи в кэш: %v", err)
			}
		}
	}

	rs.genMetrics.Observe(source, time.Since(start), len(buf))
	c.Header("X-Texture-Digest", raster.Digest(buf))
	c.Header("X-Texture-Source", source)

	switch format {
	case "raw":
		var out bytes.Buffer
		if err := raster.EncodeRawGzip(&out, buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/gzip", out.Bytes())
	default:
		var out bytes.Buffer
		if err := raster.EncodePNG(&out, buf, p.Width, p.Height); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/png", out.Bytes())
	}
}

// handleDefaults возвращает серверные параметры генерации по умолчанию.
func (rs *RestServer) handleDefaults(c *gin.Context) {
	p := rs.defaults
	c.JSON(http.StatusOK, gin.H{
		"width":       p.Width,
		"height":      p.Height,
		"octaves":     p.Octaves,
		"attenuation": p.Attenuation,
		"seed_lo":     p.SeedLo,
		"seed_hi":     p.SeedHi,
	})
}

// handleHealth возвращает состояние сервиса.
func (rs *RestServer) handleHealth(c *gin.Context) {
	cpuPercent, err := rs.metrics.GetCPUUsage()
	if err != nil {
		cpuPercent = -1
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      rs.metrics.GetUptime(),
		"memory_mb":   rs.metrics.GetMemoryUsage(),
		"cpu_percent": cpuPercent,
		"goroutines":  rs.metrics.GetGoroutineCount(),
		"cache":       rs.cache != nil,
		"time":        time.Now().Unix(),
	})
}

// Start запускает REST сервер в отдельной горутине.
func (rs *RestServer) Start() error {
	rs.httpServer = &http.Server{
		Addr:    rs.port,
		Handler: rs.router,
	}

	go func() {
		if err := rs.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("❌ REST сервер: %v", err)
		}
	}()

	logging.Info("🌐 REST API запущен на %s", rs.port)
	return nil
}

// Stop останавливает REST сервер (graceful shutdown).
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.httpServer == nil {
		return nil
	}
	return rs.httpServer.Shutdown(ctx)
}
