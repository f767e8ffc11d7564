package entropy

// Scripted replays fixed draws. Float64 cycles through Floats (0.99 when
// empty), Intn returns Ints modulo n (0 when empty), Shuffle keeps order.
type Scripted struct {
	Floats []float64
	Ints   []int
	fi, ii int
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)] % n
	s.ii++
	if v < 0 {
		v += n
	}
	return v
}

func (s *Scripted) Shuffle(int, func(i, j int)) {}
