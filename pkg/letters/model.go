package letters

// Transition is a probability distribution over the class of the next letter.
// Consonant + Vowel is 1 within floating point tolerance.
type Transition struct {
	Consonant float64 `json:"consonant" yaml:"consonant"`
	Vowel     float64 `json:"vowel" yaml:"vowel"`
}

// Model is a first-order two-state Markov chain over letter classes. It is
// immutable once built.
type Model struct {
	consonants int
	vowels     int
	pairs      Pairs

	prior    Transition
	hasPrior bool
	next     [2]Transition
	defined  [2]bool
}

// FromStats builds a Model from aggregate counts and pair tallies.
//
// For a current class X the chance of moving to class Y is tally(X→Y) divided
// by the number of transitions leaving X. A class that never had a successor
// has no distribution; Next reports it as undefined instead of guessing.
func FromStats(consonants, vowels int, pairs Pairs) *Model {
	m := &Model{
		consonants: consonants,
		vowels:     vowels,
		pairs:      pairs,
	}

	m.next[Consonant], m.defined[Consonant] = distribution(pairs.CC, pairs.CV)
	m.next[Vowel], m.defined[Vowel] = distribution(pairs.VC, pairs.VV)
	m.prior, m.hasPrior = distribution(consonants, vowels)

	return m
}

func distribution(toConsonant, toVowel int) (Transition, bool) {
	total := toConsonant + toVowel
	if toConsonant < 0 || toVowel < 0 || total == 0 {
		return Transition{}, false
	}
	return Transition{
		Consonant: float64(toConsonant) / float64(total),
		Vowel:     float64(toVowel) / float64(total),
	}, true
}

// Next returns the distribution of the letter following one of class from.
// ok is false when no letter of that class was ever followed by another.
func (m *Model) Next(from Letter) (t Transition, ok bool) {
	if from > Vowel {
		return Transition{}, false
	}
	return m.next[from], m.defined[from]
}

// Defined reports whether Next has a distribution for class from.
func (m *Model) Defined(from Letter) bool {
	_, ok := m.Next(from)
	return ok
}

// Prior returns the overall class distribution of the counted letters,
// ignoring context. ok is false when nothing was counted.
func (m *Model) Prior() (t Transition, ok bool) {
	return m.prior, m.hasPrior
}

// Counts returns the aggregate counts the Model was built from.
func (m *Model) Counts() (consonants, vowels int) {
	return m.consonants, m.vowels
}

// Pairs returns the tallies the Model was built from.
func (m *Model) Pairs() Pairs {
	return m.pairs
}
