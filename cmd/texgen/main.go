// texgen — CLI генерации детерминированных фрактальных текстур.
//
// Примеры:
//
//	texgen -out noise.png
//	texgen -width 1024 -height 1024 -octaves 10 -attenuation 0.6 -out big.png
//	texgen -seed-lo 1 -seed-hi 2 -format raw -out field.raw.gz
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/annel0/texgen/internal/config"
	"github.com/annel0/texgen/internal/noise"
	"github.com/annel0/texgen/internal/raster"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config (optional)")
		width       = flag.Int("width", 0, "Raster width in pixels")
		height      = flag.Int("height", 0, "Raster height in pixels")
		octaves     = flag.Int("octaves", 0, "Number of octaves")
		attenuation = flag.Float64("attenuation", 0, "Per-octave amplitude attenuation, in (0,1)")
		seedLo      = flag.Uint64("seed-lo", 0, "Low half of the RNG seed")
		seedHi      = flag.Uint64("seed-hi", 0, "High half of the RNG seed")
		out         = flag.String("out", "output.png", "Output file")
		format      = flag.String("format", "png", "Output format: png, raw (gzip)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	p := noise.DefaultParams()
	if cfg != nil {
		p = cfg.Texture.Params()
	}

	// Флаги имеют приоритет над конфигом.
	if *width > 0 {
		p.Width = *width
	}
	if *height > 0 {
		p.Height = *height
	}
	if *octaves > 0 {
		p.Octaves = *octaves
	}
	if *attenuation != 0 {
		p.Attenuation = *attenuation
	}
	if *seedLo != 0 || *seedHi != 0 {
		p.SeedLo = *seedLo
		p.SeedHi = *seedHi
	}

	gen, err := noise.NewGenerator(p)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	fmt.Fprintf(os.Stderr, "Генерация %dx%d, октав: %d, затухание: %g, seed: %016x:%016x\n",
		p.Width, p.Height, p.Octaves, p.Attenuation, p.SeedLo, p.SeedHi)

	start := time.Now()
	buf := gen.Raster()
	elapsed := time.Since(start)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("❌ Не удалось создать %s: %v", *out, err)
	}

	switch *format {
	case "png":
		err = raster.EncodePNG(f, buf, p.Width, p.Height)
	case "raw":
		err = raster.EncodeRawGzip(f, buf)
	default:
		f.Close()
		log.Fatalf("❌ Неизвестный формат %q (доступны: png, raw)", *format)
	}
	if err != nil {
		f.Close()
		log.Fatalf("❌ Ошибка кодирования: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("❌ Ошибка записи %s: %v", *out, err)
	}

	fmt.Fprintf(os.Stderr, "Готово за %s, растр %d байт, sha256 %s\n",
		elapsed, len(buf), raster.Digest(buf))
	fmt.Fprintf(os.Stderr, "Записано: %s\n", *out)
}
