// Package config читает YAML-конфигурацию сервиса генерации текстур.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/annel0/texgen/internal/noise"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Texture TextureConfig `yaml:"texture"`
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
}

// TextureConfig — параметры генерации по умолчанию. Нулевые поля
// замещаются эталонной конфигурацией (512×512, 8 октав, затухание 0.75).
type TextureConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Octaves     int     `yaml:"octaves"`
	Attenuation float64 `yaml:"attenuation"`
	SeedLo      uint64  `yaml:"seed_lo"`
	SeedHi      uint64  `yaml:"seed_hi"`
}

// ServerConfig — порты HTTP-сервиса.
type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

// CacheConfig — встроенный кэш готовых растров.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// GetRESTPort возвращает REST порт с приоритетом: config -> env -> default.
func (s *ServerConfig) GetRESTPort() int {
	if s.RESTPort > 0 {
		return s.RESTPort
	}
	if envVal := os.Getenv("TEXGEN_REST_PORT"); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return 8090
}

// GetPath возвращает путь кэша; по умолчанию ./data.
func (c *CacheConfig) GetPath() string {
	if c.Path != "" {
		return c.Path
	}
	if envVal := os.Getenv("TEXGEN_CACHE_PATH"); envVal != "" {
		return envVal
	}
	return "data"
}

// Params собирает noise.Params из конфигурации, подставляя эталонные
// значения вместо незаполненных полей.
func (t *TextureConfig) Params() noise.Params {
	p := noise.DefaultParams()
	if t.Width > 0 {
		p.Width = t.Width
	}
	if t.Height > 0 {
		p.Height = t.Height
	}
	if t.Octaves > 0 {
		p.Octaves = t.Octaves
	}
	if t.Attenuation != 0 {
		p.Attenuation = t.Attenuation
	}
	if t.SeedLo != 0 || t.SeedHi != 0 {
		p.SeedLo = t.SeedLo
		p.SeedHi = t.SeedHi
	}
	return p
}

// Validate проверяет конфигурацию до старта генерации: ошибки здесь
// фатальны и должны останавливать запуск, а не портить вывод.
func (c *Config) Validate() error {
	if err := c.Texture.Params().Validate(); err != nil {
		return fmt.Errorf("секция texture: %w", err)
	}
	if c.Server.RESTPort < 0 || c.Server.RESTPort > 65535 {
		return fmt.Errorf("секция server: недопустимый порт %d", c.Server.RESTPort)
	}
	return nil
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV TEXGEN_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TEXGEN_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
