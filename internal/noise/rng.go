package noise

// Rand — детерминированный генератор xoroshiro128++.
// Вся воспроизводимость текстур держится на нём: одинаковая пара seed-значений
// даёт одинаковую последовательность на любой платформе. Внешние источники
// энтропии и повторная инициализация не допускаются.
type Rand struct {
	lo, hi uint64
}

// NewRand создаёт генератор из пары 64-битных seed-значений.
func NewRand(lo, hi uint64) *Rand {
	r := &Rand{lo: lo, hi: hi}
	if r.lo|r.hi == 0 {
		// Нулевое состояние для xoroshiro вырождено, подменяем константами.
		r.lo = 0x9E3779B97F4A7C15
		r.hi = 0x6A09E667F3BCC909
	}
	return r
}

func rotl(x uint64, k uint) uint64 {
	return x<<k | x>>(64-k)
}

// Uint64 возвращает следующее 64-битное значение последовательности.
func (r *Rand) Uint64() uint64 {
	lo, hi := r.lo, r.hi
	res := rotl(lo+hi, 17) + lo
	hi ^= lo
	r.lo = rotl(lo, 49) ^ hi ^ (hi << 21)
	r.hi = rotl(hi, 28)
	return res
}

// Float64 возвращает равномерное значение в [0, 1) из старших 53 бит.
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) * 0x1.0p-53
}
