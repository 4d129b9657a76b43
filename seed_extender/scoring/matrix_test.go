package scoring

import "testing"

func TestNucleotide(t *testing.T) {
	m, err := NewNucleotide(2, -3)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		a, b byte
		want int
	}{
		{'A', 'A', 2},
		{'A', 'C', -3},
		{'T', 'U', 2},
		{'N', 'N', -3},
		{'N', 'A', -3},
		{'a', 'a', -3}, // lower case is not defined
	}
	for _, c := range cases {
		if got := m.Score(c.a, c.b); got != c.want {
			t.Errorf("%c/%c: got %d want %d", c.a, c.b, got, c.want)
		}
	}
	if m.Max != 2 || m.Min != -3 {
		t.Fatalf("min/max %d/%d", m.Min, m.Max)
	}
	if _, err := NewNucleotide(1, 1); err == nil {
		t.Fatal("positive penalty accepted")
	}
	for _, rp := range [][2]int{{200, -3}, {2, -200}, {128, -1}} {
		if _, err := NewNucleotide(rp[0], rp[1]); err == nil {
			t.Errorf("reward/penalty %d/%d accepted", rp[0], rp[1])
		}
	}
	m, err = NewNucleotide(127, -128)
	if err != nil {
		t.Fatal(err)
	}
	if m.Score('A', 'A') != 127 || m.Score('A', 'C') != -128 {
		t.Fatalf("extremes stored as %d/%d", m.Score('A', 'A'), m.Score('A', 'C'))
	}
}

func TestBLOSUM62(t *testing.T) {
	m := BLOSUM62()
	cases := []struct {
		a, b byte
		want int
	}{
		{'W', 'W', 11},
		{'A', 'A', 4},
		{'C', 'C', 9},
		{'D', 'E', 2},
		{'*', '*', 1},
		{'A', '*', -4},
		{'J', 'A', -4},
	}
	for _, c := range cases {
		if got := m.Score(c.a, c.b); got != c.want {
			t.Errorf("%c/%c: got %d want %d", c.a, c.b, got, c.want)
		}
	}
	const letters = "ARNDCQEGHILKMFPSTWYVBZX*"
	for i := 0; i < len(letters); i++ {
		for j := 0; j < len(letters); j++ {
			a, b := letters[i], letters[j]
			if m.Score(a, b) != m.Score(b, a) {
				t.Fatalf("asymmetric at %c/%c", a, b)
			}
		}
	}
	if m.Min != -4 || m.Max != 11 {
		t.Fatalf("min/max %d/%d", m.Min, m.Max)
	}
}

func TestByName(t *testing.T) {
	cases := []struct {
		name string
		a, b byte
		want int
		min  int
	}{
		{"", 'W', 'W', 11, -4},
		{"blosum62", 'A', 'R', -1, -4},
		{"BLOSUM45", 'W', 'W', 15, -5},
		{"BLOSUM80", 'A', 'A', 7, -8},
		{"PAM30", 'A', 'R', -7, -17},
		{"pam30", 'W', 'W', 13, -17},
	}
	for _, c := range cases {
		m, err := ByName(c.name)
		if err != nil {
			t.Fatalf("%q: %v", c.name, err)
		}
		if got := m.Score(c.a, c.b); got != c.want {
			t.Errorf("%q %c/%c: got %d want %d", c.name, c.a, c.b, got, c.want)
		}
		if m.Min != c.min || m.Score('J', 'A') != c.min {
			t.Errorf("%q: min %d, J/A %d, want %d", c.name, m.Min, m.Score('J', 'A'), c.min)
		}
	}
	if len(Names()) != 74 {
		t.Fatalf("only %d matrices", len(Names()))
	}
	if _, err := ByName("pam31"); err == nil {
		t.Fatal("unknown matrix accepted")
	}
}
