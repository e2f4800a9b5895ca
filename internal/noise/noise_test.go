package noise

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCeilDiv(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{0, 5, 0},    // ноль делится на всё
		{10, 5, 2},   // нацело
		{11, 5, 3},   // с остатком
		{4, 5, 1},    // a = b-1
		{1, 1, 1},    // единичная ячейка
		{512, 64, 8}, // эталонная конфигурация, крупнейшая октава
		{512, 128, 4},
		{500, 128, 4}, // не кратно
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ceilDiv(c.a, c.b), "ceilDiv(%d, %d)", c.a, c.b)
	}
}

func TestInterpolateBoundaries(t *testing.T) {
	pairs := [][2]float64{{0, 1}, {-1, 1}, {2.5, -3.75}, {0.1, 0.3}}
	for _, p := range pairs {
		assert.Equal(t, p[0], interpolate(p[0], p[1], 0), "w=0 должен вернуть a0")
		assert.InDelta(t, p[1], interpolate(p[0], p[1], 1), 1e-12, "w=1 должен вернуть a1")
	}
}

func TestInterpolateMonotonic(t *testing.T) {
	// При a0 <= a1 кривая не убывает на [0, 1].
	prev := interpolate(-1, 1, 0)
	for w := 0.01; w <= 1.0; w += 0.01 {
		cur := interpolate(-1, 1, w)
		require.GreaterOrEqual(t, cur, prev, "нарушение монотонности при w=%g", w)
		prev = cur
	}
}

func TestGradientUnitLength(t *testing.T) {
	r := NewRand(7, 11)
	g := buildGradientGrid(r, 64, 48, 8)

	require.Equal(t, 8, g.rows)
	require.Equal(t, 6, g.cols)
	require.Len(t, g.vecs, 9*7)

	for i, v := range g.vecs {
		mag := math.Hypot(v[0], v[1])
		require.InDelta(t, 1.0, mag, 1e-6, "градиент %d не единичной длины", i)
	}
}

func TestGradientGridDeterministicOrder(t *testing.T) {
	// Порядок потребления значений генератора зафиксирован (строки, затем
	// столбцы): решётка воспроизводится из того же состояния seed.
	g1 := buildGradientGrid(NewRand(3, 5), 32, 32, 4)
	g2 := buildGradientGrid(NewRand(3, 5), 32, 32, 4)
	require.Equal(t, g1.vecs, g2.vecs)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	bad := []Params{
		{Width: 0, Height: 512, Octaves: 8, Attenuation: 0.75},
		{Width: 512, Height: -1, Octaves: 8, Attenuation: 0.75},
		{Width: 512, Height: 512, Octaves: 0, Attenuation: 0.75},
		{Width: 512, Height: 512, Octaves: 8, Attenuation: 0},
		{Width: 512, Height: 512, Octaves: 8, Attenuation: 1},
		{Width: 512, Height: 512, Octaves: 8, Attenuation: 1.5},
		{Width: 512, Height: 512, Octaves: maxOctaves + 1, Attenuation: 0.75},
	}
	for i, p := range bad {
		assert.Error(t, p.Validate(), "параметры %d должны быть отклонены", i)
	}

	_, err := NewGenerator(Params{})
	require.Error(t, err)
}

func TestOctaveCountUpperBound(t *testing.T) {
	// Размер ячейки крупнейшей октавы — 1<<(Octaves-1): при 64 октавах
	// сдвиг становится отрицательным, при 65 — нулевым (деление на ноль в
	// расчёте решётки). Оба случая обязаны отклоняться как ошибка
	// конфигурации ещё до генерации, а не падать в рантайме.
	p := DefaultParams()
	p.Width, p.Height = 8, 8

	for _, octaves := range []int{maxOctaves + 1, 63, 64, 65, 1 << 10} {
		p.Octaves = octaves
		gen, err := NewGenerator(p)
		require.Error(t, err, "octaves=%d", octaves)
		require.Nil(t, gen)
	}

	p.Octaves = maxOctaves
	gen, err := NewGenerator(p)
	require.NoError(t, err, "верхняя граница должна оставаться допустимой")
	require.Len(t, gen.Raster(), 64)
}

func TestScaleSumGeometricSeries(t *testing.T) {
	for _, octaves := range []int{1, 2, 4, 8} {
		p := DefaultParams()
		p.Width, p.Height = 16, 16
		p.Octaves = octaves

		gen, err := NewGenerator(p)
		require.NoError(t, err)

		_, scaleSum := gen.accumulate()

		want := 0.0
		for k := 0; k < octaves; k++ {
			want += math.Pow(p.Attenuation, float64(k))
		}
		assert.InDelta(t, want, scaleSum, 1e-12, "octaves=%d", octaves)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 128, 128

	g1, err := NewGenerator(p)
	require.NoError(t, err)
	g2, err := NewGenerator(p)
	require.NoError(t, err)

	r1 := g1.Raster()
	r2 := g2.Raster()

	require.Len(t, r1, p.Width*p.Height)
	require.Equal(t, r1, r2, "повторный запуск обязан дать байт-в-байт тот же растр")
}

// Дайджест эталонного растра (512×512, 8 октав, затухание 0.75,
// seed 0x243F6A8885A308D3:0x13198A2E03707344). Любое изменение PRNG,
// порядка потребления решётки, ядра интерполяции или квантования его
// сломает — это и есть контракт воспроизводимости.
const referenceRasterDigest = "18395b2cb00a32b78e007d23ee374a4788436e1ac0be00a01f5e3f22544de9dc"

func TestReferenceConfigurationEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("полный растр 512×512 пропускается в -short")
	}

	g1, err := NewGenerator(DefaultParams())
	require.NoError(t, err)
	g2, err := NewGenerator(DefaultParams())
	require.NoError(t, err)

	r1 := g1.Raster()
	require.Len(t, r1, 512*512)
	require.Equal(t, r1, g2.Raster())

	// Точка (0,0) — узел решётки каждой октавы: вклад шума нулевой,
	// нормализованное значение 0.0 квантуется ровно в 128.
	require.Equal(t, byte(128), r1[0])

	sum := sha256.Sum256(r1)
	require.Equal(t, referenceRasterDigest, hex.EncodeToString(sum[:]),
		"растр эталонной конфигурации разошёлся с зафиксированным дайджестом")
}

func TestGenerateSeedChangesOutput(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 64, 64

	g1, _ := NewGenerator(p)
	p.SeedLo++
	g2, _ := NewGenerator(p)

	require.NotEqual(t, g1.Raster(), g2.Raster(), "другой seed обязан менять текстуру")
}

func TestSingleOctaveDegenerate(t *testing.T) {
	// OCTAVES=1: одна октава с ячейкой размера 1, нормализация не должна
	// искажать значения (scaleSum == 1.0 точно).
	p := DefaultParams()
	p.Width, p.Height = 32, 32
	p.Octaves = 1

	gen, err := NewGenerator(p)
	require.NoError(t, err)

	field, scaleSum := gen.accumulate()
	require.Equal(t, 1.0, scaleSum)

	// Прямой одиночный проход по той же решётке даёт те же значения.
	rng := NewRand(p.SeedLo, p.SeedHi)
	grid := buildGradientGrid(rng, p.Height, p.Width, 1)
	for i := 0; i < p.Height; i++ {
		for j := 0; j < p.Width; j++ {
			direct := grid.sample(float64(i), float64(j))
			require.Equal(t, direct, field[i*p.Width+j], "пиксель (%d,%d)", i, j)
		}
	}
}

func TestQuantizeFixedPoints(t *testing.T) {
	out := Quantize([]float64{-1.0, 0.0, 1.0, -2.0, 2.0, 0.5})
	assert.Equal(t, byte(0), out[0], "-1.0 -> 0")
	assert.Equal(t, byte(128), out[1], "0.0 -> 128 (округление 127.5)")
	assert.Equal(t, byte(255), out[2], "1.0 -> 255")
	assert.Equal(t, byte(0), out[3], "зажим снизу")
	assert.Equal(t, byte(255), out[4], "зажим сверху")
	assert.Equal(t, byte(191), out[5], "0.5 -> round(191.25)")
}

func TestQuantizeFieldWithinRange(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 64, 64
	gen, _ := NewGenerator(p)

	// Любое значение поля квантуется в валидный байт; для нормализованного
	// поля крайние значения статистически редки.
	raster := gen.Raster()
	require.Len(t, raster, 64*64)
}

func BenchmarkRaster128(b *testing.B) {
	p := DefaultParams()
	p.Width, p.Height = 128, 128
	gen, _ := NewGenerator(p)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.Raster()
	}
}
