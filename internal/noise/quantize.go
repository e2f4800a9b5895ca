package noise

import "math"

// Quantize отображает нормализованное поле в 8-битные интенсивности:
// значение зажимается в [-1, 1] и аффинно переводится в [0, 255].
// Зажим — жёсткое насыщение, а не ошибка: статистически поле почти
// никогда не выходит за диапазон, но гарантий нет.
func Quantize(field []float64) []byte {
	buf := make([]byte, len(field))
	for i, v := range field {
		if v < -1 {
			v = -1
		} else if v > 1 {
			v = 1
		}
		buf[i] = byte(math.Round(v*127.5 + 127.5))
	}
	return buf
}
