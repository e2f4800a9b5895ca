package noise

// dotGridGradient — скалярное произведение градиента узла (ix, iy)
// и вектора смещения от узла до точки (x, y).
func (g *gradientGrid) dotGridGradient(ix, iy int, x, y float64) float64 {
	grad := g.at(ix, iy)
	dx := x - float64(ix)
	dy := y - float64(iy)
	return dx*grad[0] + dy*grad[1]
}

// interpolate — smoothstep-интерполяция между a0 и a1 с весом w из [0, 1].
// Кубическая кривая 3w²−2w³ даёт C¹-непрерывность на границах ячеек;
// линейная интерполяция оставляла бы видимые изломы вдоль решётки.
func interpolate(a0, a1, w float64) float64 {
	return a0 + (a1-a0)*(3.0-w*2.0)*w*w
}

// sample вычисляет значение шума Перлина в точке (x, y), заданной в
// координатах ячеек решётки (уже поделённых на размер ячейки).
// Координаты обязаны лежать в пределах решётки: x в [0, rows), y в [0, cols).
// Результат лежит примерно в [-1, 1], строгой границы нет.
func (g *gradientGrid) sample(x, y float64) float64 {
	x0 := int(x) // floor: координаты неотрицательны
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1

	sx := x - float64(x0)
	sy := y - float64(y0)

	n0 := g.dotGridGradient(x0, y0, x, y)
	n1 := g.dotGridGradient(x1, y0, x, y)
	ix0 := interpolate(n0, n1, sx)

	n0 = g.dotGridGradient(x0, y1, x, y)
	n1 = g.dotGridGradient(x1, y1, x, y)
	ix1 := interpolate(n0, n1, sx)

	return interpolate(ix0, ix1, sy)
}
