package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/texgen/internal/api"
	"github.com/annel0/texgen/internal/config"
	"github.com/annel0/texgen/internal/logging"
	"github.com/annel0/texgen/internal/noise"
	"github.com/annel0/texgen/internal/observability"
	"github.com/annel0/texgen/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🗺️  Запуск сервиса генерации текстур...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	defaults := noise.DefaultParams()
	restPort := fmt.Sprintf(":%d", (&config.ServerConfig{}).GetRESTPort())
	cacheEnabled := false
	cachePath := "data"
	if cfg != nil {
		defaults = cfg.Texture.Params()
		restPort = fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
		cacheEnabled = cfg.Cache.Enabled
		cachePath = cfg.Cache.GetPath()
	}

	logging.Info("📡 Конфигурация: REST=%s, растр %dx%d, октав %d, кэш=%v",
		restPort, defaults.Width, defaults.Height, defaults.Octaves, cacheEnabled)

	// === OBSERVABILITY ===
	ctx := context.Background()
	shutdownTelemetry, err := observability.InitTelemetry(ctx, "texgen")
	if err != nil {
		// Трассировка опциональна: без коллектора сервис всё равно работает.
		logging.Warn("OpenTelemetry недоступен: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	// === КЭШ ===
	var cache *storage.TextureCache
	if cacheEnabled {
		logging.Debug("Открытие кэша текстур в %s...", cachePath)
		cache, err = storage.NewTextureCache(cachePath)
		if err != nil {
			logging.Error("❌ Ошибка открытия кэша: %v", err)
			log.Fatalf("❌ Ошибка открытия кэша: %v", err)
		}
	}

	// === REST API ===
	logging.Debug("Создание REST API сервера...")
	restServer := api.NewRestServer(api.Config{
		Port:     restPort,
		Defaults: defaults,
		Cache:    cache,
	})

	if err := restServer.Start(); err != nil {
		logging.Error("❌ Ошибка запуска REST API: %v", err)
		log.Fatalf("❌ Ошибка запуска REST API: %v", err)
	}

	logging.Info("✅ Сервис запущен")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("   📊 Метрики: http://localhost%s/metrics", restPort)
	logging.Info("💡 Пример: curl -X POST http://localhost%s/api/textures -d '{\"width\":512,\"height\":512}' -o noise.png", restPort)

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := restServer.Stop(shutdownCtx); err != nil {
		logging.Error("Ошибка остановки REST сервера: %v", err)
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			logging.Error("Ошибка закрытия кэша: %v", err)
		}
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logging.Error("Ошибка остановки телеметрии: %v", err)
	}

	logging.Info("✅ Сервис остановлен")
}
