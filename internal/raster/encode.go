// Package raster упаковывает квантованный байтовый буфер шума в выходные
// форматы: grayscale PNG и сжатый gzip сырой дамп.
package raster

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/klauspost/compress/gzip"
)

// EncodePNG оборачивает построчный растр в 8-битное grayscale-изображение
// и кодирует его в PNG. Буфер используется напрямую как пиксели, без копии.
func EncodePNG(w io.Writer, buf []byte, width, height int) error {
	if len(buf) != width*height {
		return fmt.Errorf("размер растра %d не соответствует %dx%d", len(buf), width, height)
	}

	img := &image.Gray{
		Pix:    buf,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
	return png.Encode(w, img)
}

// EncodeRawGzip пишет сырой растр (одна яркостная компонента, построчно),
// сжатый gzip. Формат для потребителей, которым не нужен PNG-контейнер.
func EncodeRawGzip(w io.Writer, buf []byte) error {
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(buf); err != nil {
		zw.Close()
		return fmt.Errorf("ошибка записи растра: %w", err)
	}
	return zw.Close()
}

// DecodeRawGzip распаковывает растр, записанный EncodeRawGzip.
func DecodeRawGzip(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения gzip-заголовка: %w", err)
	}
	defer zr.Close()

	buf, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки растра: %w", err)
	}
	return buf, nil
}

// Digest возвращает hex SHA-256 растра — стабильный идентификатор вывода
// для проверки воспроизводимости между запусками.
func Digest(buf []byte) string {
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
