package letters

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestFromStatsBanana(t *testing.T) {
	seq, err := NewFromString("banana")
	if err != nil {
		t.Fatal(err)
	}
	m := seq.Summary().Model()

	fromC, ok := m.Next(Consonant)
	if !ok {
		t.Fatal("expected consonant distribution to be defined")
	}
	// Every consonant in "banana" is followed by a vowel.
	if !approx(fromC.Vowel, 1) || !approx(fromC.Consonant, 0) {
		t.Errorf("Next(C) = %+v, want {0 1}", fromC)
	}

	fromV, ok := m.Next(Vowel)
	if !ok {
		t.Fatal("expected vowel distribution to be defined")
	}
	if !approx(fromV.Consonant, 1) || !approx(fromV.Vowel, 0) {
		t.Errorf("Next(V) = %+v, want {1 0}", fromV)
	}

	prior, ok := m.Prior()
	if !ok || !approx(prior.Consonant, 0.5) || !approx(prior.Vowel, 0.5) {
		t.Errorf("Prior() = %+v, %v, want {0.5 0.5}, true", prior, ok)
	}
}

func TestFromStatsUndefined(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		consonants bool
		vowels     bool
		prior      bool
	}{
		{name: "Empty", input: ""},
		{name: "Single vowel", input: "a", prior: true},
		{name: "Only vowels", input: "aeiou", vowels: true, prior: true},
		{name: "Vowel ends text", input: "ba", consonants: true, prior: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seq, err := NewFromString(tc.input)
			if err != nil {
				t.Fatal(err)
			}
			m := seq.Summary().Model()

			if got := m.Defined(Consonant); got != tc.consonants {
				t.Errorf("Defined(C) = %v, want %v", got, tc.consonants)
			}
			if got := m.Defined(Vowel); got != tc.vowels {
				t.Errorf("Defined(V) = %v, want %v", got, tc.vowels)
			}
			if _, ok := m.Prior(); ok != tc.prior {
				t.Errorf("Prior() ok = %v, want %v", ok, tc.prior)
			}
			if next, ok := m.Next(Consonant); !ok && next != (Transition{}) {
				t.Errorf("undefined class returned non-zero transition %+v", next)
			}
		})
	}
}

func TestFromStatsProbabilities(t *testing.T) {
	pairs := Pairs{CC: 1, CV: 3, VC: 2, VV: 6}
	m := FromStats(10, 9, pairs)

	fromC, _ := m.Next(Consonant)
	if !approx(fromC.Consonant, 0.25) || !approx(fromC.Vowel, 0.75) {
		t.Errorf("Next(C) = %+v, want {0.25 0.75}", fromC)
	}
	fromV, _ := m.Next(Vowel)
	if !approx(fromV.Consonant, 0.25) || !approx(fromV.Vowel, 0.75) {
		t.Errorf("Next(V) = %+v, want {0.25 0.75}", fromV)
	}
	for _, from := range []Letter{Consonant, Vowel} {
		next, _ := m.Next(from)
		if next.Consonant < 0 || next.Consonant > 1 || next.Vowel < 0 || next.Vowel > 1 {
			t.Errorf("probabilities out of range: %+v", next)
		}
		if !approx(next.Consonant+next.Vowel, 1) {
			t.Errorf("probabilities for %v sum to %f", from, next.Consonant+next.Vowel)
		}
	}

	if c, v := m.Counts(); c != 10 || v != 9 {
		t.Errorf("Counts() = (%d, %d), want (10, 9)", c, v)
	}
	if m.Pairs() != pairs {
		t.Errorf("Pairs() = %+v, want %+v", m.Pairs(), pairs)
	}
}

func TestNextUnknownClass(t *testing.T) {
	m := FromStats(1, 1, Pairs{CV: 1})
	if _, ok := m.Next(Letter(7)); ok {
		t.Error("expected unknown class to be undefined")
	}
}

func TestFromStatsNegativeTallies(t *testing.T) {
	m := FromStats(-5, 1, Pairs{CC: -1, CV: 2})
	if next, ok := m.Next(Consonant); ok {
		t.Errorf("negative tallies gave a distribution: %+v", next)
	}
	if prior, ok := m.Prior(); ok {
		t.Errorf("negative counts gave a prior: %+v", prior)
	}
}
