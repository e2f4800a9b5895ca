package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ServerMetrics содержит метрики процесса для /health.
type ServerMetrics struct {
	StartTime time.Time
}

// NewServerMetrics создает новый экземпляр метрик
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{
		StartTime: time.Now(),
	}
}

// GetUptime возвращает время работы сервера
func (sm *ServerMetrics) GetUptime() string {
	uptime := time.Since(sm.StartTime)

	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}

// GetMemoryUsage возвращает использование памяти в MB.
// Генерация держит в куче поле float64 (8 байт на пиксель) плюс растр,
// поэтому всплески пропорциональны площади запрошенных текстур.
func (sm *ServerMetrics) GetMemoryUsage() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}

// GetGoroutineCount возвращает число горутин процесса.
func (sm *ServerMetrics) GetGoroutineCount() int {
	return runtime.NumGoroutine()
}

// GetCPUUsage возвращает использование CPU процессом в процентах
func (sm *ServerMetrics) GetCPUUsage() (float64, error) {
	pid := int32(os.Getpid())
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, попробуем системную
		cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}

	return cpuPercent, nil
}

// GenerationMetrics — prometheus-метрики генерации текстур.
//
// * texgen_generation_duration_seconds{source} — histogram
// * texgen_textures_served_total{source} — counter (source: generated|cache)
// * texgen_raster_bytes_total — counter
type GenerationMetrics struct {
	genDuration *prometheus.HistogramVec
	served      *prometheus.CounterVec
	rasterBytes prometheus.Counter
}

// NewGenerationMetrics регистрирует метрики в дефолтном регистре.
func NewGenerationMetrics() *GenerationMetrics {
	gm := &GenerationMetrics{
		genDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "texgen",
			Name:      "generation_duration_seconds",
			Help:      "Длительность подготовки растра (генерация или чтение кэша).",
			Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		served: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "texgen",
			Name:      "textures_served_total",
			Help:      "Количество отданных текстур по источнику.",
		}, []string{"source"}),
		rasterBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "texgen",
			Name:      "raster_bytes_total",
			Help:      "Суммарный объём отданных растров до упаковки.",
		}),
	}

	prometheus.MustRegister(gm.genDuration, gm.served, gm.rasterBytes)
	return gm
}

// Observe фиксирует одну отданную текстуру.
func (gm *GenerationMetrics) Observe(source string, d time.Duration, size int) {
	gm.genDuration.WithLabelValues(source).Observe(d.Seconds())
	gm.served.WithLabelValues(source).Inc()
	gm.rasterBytes.Add(float64(size))
}
