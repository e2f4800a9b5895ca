package noise

import "math"

// ceilDiv — целочисленное деление с округлением вверх.
// Используется для расчёта размера решётки; плавающая точка здесь
// недопустима из-за ошибок округления на больших значениях.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// gradientGrid — решётка единичных градиентов одной октавы.
// Узел (i, j) хранит вектор (cos θ, sin θ); i идёт вдоль высоты
// изображения, j — вдоль ширины.
type gradientGrid struct {
	rows, cols int          // количество ячеек по вертикали и горизонтали
	vecs       [][2]float64 // (rows+1)*(cols+1) узлов, построчно
}

// buildGradientGrid строит решётку для октавы с заданным размером ячейки.
// Порядок обхода узлов зафиксирован: строки i от 0 до rows, внутри строки
// столбцы j от 0 до cols, ровно одно значение генератора на узел. Менять
// порядок нельзя — от него зависит воспроизводимость всей текстуры.
func buildGradientGrid(r *Rand, height, width, cellSize int) *gradientGrid {
	rows := ceilDiv(height, cellSize)
	cols := ceilDiv(width, cellSize)

	g := &gradientGrid{
		rows: rows,
		cols: cols,
		vecs: make([][2]float64, (rows+1)*(cols+1)),
	}

	for i := 0; i <= rows; i++ {
		for j := 0; j <= cols; j++ {
			theta := r.Float64() * 2 * math.Pi
			g.vecs[i*(cols+1)+j] = [2]float64{math.Cos(theta), math.Sin(theta)}
		}
	}

	return g
}

// at возвращает градиент узла (i, j).
func (g *gradientGrid) at(i, j int) [2]float64 {
	return g.vecs[i*(g.cols+1)+j]
}
