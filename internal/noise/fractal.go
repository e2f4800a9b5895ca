package noise

import "fmt"

// maxOctaves ограничивает количество октав: размер ячейки крупнейшей
// октавы равен 1<<(Octaves-1) и обязан помещаться в int даже на
// 32-битных платформах. Сдвиг за пределы разрядности даёт нулевую или
// отрицательную ячейку вместо ошибки конфигурации.
const maxOctaves = 30

// Params — параметры генерации фрактального шума.
type Params struct {
	Width       int     // ширина растра в пикселях, > 0
	Height      int     // высота растра в пикселях, > 0
	Octaves     int     // количество октав, > 0
	Attenuation float64 // затухание амплитуды на октаву, строго в (0, 1)
	SeedLo      uint64  // младшая половина seed
	SeedHi      uint64  // старшая половина seed
}

// DefaultParams возвращает эталонную конфигурацию: 512×512, 8 октав,
// затухание 0.75, фиксированная пара seed-значений.
func DefaultParams() Params {
	return Params{
		Width:       512,
		Height:      512,
		Octaves:     8,
		Attenuation: 0.75,
		SeedLo:      0x243F6A8885A308D3,
		SeedHi:      0x13198A2E03707344,
	}
}

// Validate проверяет допустимость параметров. Нарушение — ошибка
// конфигурации, генерация не должна начинаться.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("размеры растра должны быть положительными, получено %dx%d", p.Width, p.Height)
	}
	if p.Octaves <= 0 {
		return fmt.Errorf("количество октав должно быть положительным, получено %d", p.Octaves)
	}
	if p.Octaves > maxOctaves {
		return fmt.Errorf("количество октав не может превышать %d, получено %d", maxOctaves, p.Octaves)
	}
	if p.Attenuation <= 0 || p.Attenuation >= 1 {
		return fmt.Errorf("затухание должно лежать строго в (0, 1), получено %g", p.Attenuation)
	}
	return nil
}

// Generator синтезирует детерминированное фрактальное поле шума Перлина.
// Потокобезопасности нет и не требуется: каждый запрос на генерацию
// создаёт свой Generator.
type Generator struct {
	params Params
}

// NewGenerator создаёт генератор, проверяя параметры заранее.
func NewGenerator(p Params) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("некорректные параметры генерации: %w", err)
	}
	return &Generator{params: p}, nil
}

// Params возвращает параметры генератора.
func (g *Generator) Params() Params {
	return g.params
}

// Field возвращает нормализованное скалярное поле размером Height×Width
// (построчно). Значения лежат примерно в [-1, 1].
func (g *Generator) Field() []float64 {
	field, _ := g.accumulate()
	return field
}

// accumulate суммирует взвешенные вклады октав и нормализует результат.
// Возвращает поле и итоговую сумму амплитуд (геометрический ряд затухания).
func (g *Generator) accumulate() ([]float64, float64) {
	p := g.params
	field := make([]float64, p.Height*p.Width)
	rng := NewRand(p.SeedLo, p.SeedHi)

	scale := 1.0
	scaleSum := 0.0

	// Октавы обходятся строго последовательно, от самой крупной ячейки
	// (низкая частота) к ячейке размера 1: амплитуда каждой октавы
	// зависит от предыдущей.
	for level := p.Octaves - 1; level >= 0; level-- {
		cellSize := 1 << level
		grid := buildGradientGrid(rng, p.Height, p.Width, cellSize)

		cs := float64(cellSize)
		for i := 0; i < p.Height; i++ {
			x := float64(i) / cs
			row := field[i*p.Width : (i+1)*p.Width]
			for j := range row {
				y := float64(j) / cs
				row[j] += grid.sample(x, y) * scale
			}
		}

		scaleSum += scale
		scale *= p.Attenuation
	}

	// Взвешенное усреднение, не min/max-растяжка: поле не обязано
	// покрывать весь диапазон [-1, 1].
	for i := range field {
		field[i] /= scaleSum
	}

	return field, scaleSum
}

// Raster генерирует поле и сразу квантует его в 8-битный растр.
func (g *Generator) Raster() []byte {
	return Quantize(g.Field())
}
