package letters

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
)

// readChunkSize is the largest piece of a line UpdateFrom validates at once.
const readChunkSize = 64 << 10

// Sequence is an append-only run of classified letters. Order matters: it is
// what defines adjacency for pair analysis. A Sequence is not safe for
// concurrent mutation.
type Sequence struct {
	letters []Letter
}

// New returns an empty Sequence.
func New() *Sequence {
	return &Sequence{}
}

// NewFromString builds a Sequence from a single chunk of text.
func NewFromString(input string) (*Sequence, error) {
	s := New()
	if err := s.Update(input); err != nil {
		return nil, err
	}
	return s, nil
}

// FromLetters wraps already classified letters. The slice is copied.
func FromLetters(l []Letter) *Sequence {
	cp := make([]Letter, len(l))
	copy(cp, l)
	return &Sequence{letters: cp}
}

// Update normalizes and validates input, then appends the class of every
// remaining character. On a validation error the Sequence is left untouched
// and the error is returned as produced by Validate.
func (s *Sequence) Update(input string) error {
	input = Normalize(input)
	if err := Validate(input); err != nil {
		return err
	}

	s.letters = slices.Grow(s.letters, len(input))
	for i := 0; i < len(input); i++ {
		s.letters = append(s.letters, Classify(input[i]))
	}
	return nil
}

// UpdateFrom streams r into the Sequence one line at a time. Lines that were
// accepted before a failing line stay in the Sequence; the failing line adds
// nothing. Validation errors are wrapped with the 1-based line number and
// still match the package sentinels.
//
// Lines of any length are accepted. A line longer than readChunkSize is
// validated chunk by chunk, so within such a line the first failing chunk
// decides the error kind, and across lines the first failing line does:
// "1\ncafé" fails on line 1 with CharacterIsNumber.
func (s *Sequence) UpdateFrom(r io.Reader) error {
	br := bufio.NewReaderSize(r, readChunkSize)
	pending := New()

	line := 1
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read error after line %d: %w", line-1, err)
		}
		if err = pending.Update(string(chunk)); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if !more {
			s.letters = append(s.letters, pending.letters...)
			pending.letters = pending.letters[:0]
			line++
		}
	}
	s.letters = append(s.letters, pending.letters...)
	return nil
}

// Len returns the number of letters in the Sequence.
func (s *Sequence) Len() int {
	return len(s.letters)
}

// At returns the letter at position i.
func (s *Sequence) At(i int) Letter {
	return s.letters[i]
}

// Letters returns a copy of the letters in order.
func (s *Sequence) Letters() []Letter {
	cp := make([]Letter, len(s.letters))
	copy(cp, s.letters)
	return cp
}

// Finalize counts consonants and vowels. The two always add up to Len.
func (s *Sequence) Finalize() (consonants, vowels int) {
	for _, l := range s.letters {
		if l == Vowel {
			vowels++
		}
	}
	return len(s.letters) - vowels, vowels
}

// AnalyzePairs tallies the transition type of each adjacent pair (i, i+1).
// Sequences shorter than two letters have no pairs.
func (s *Sequence) AnalyzePairs() Pairs {
	var p Pairs
	for i := 1; i < len(s.letters); i++ {
		p.inc(PairOf(s.letters[i-1], s.letters[i]))
	}
	return p
}

// Summary computes the counts and pair tallies of the current contents.
func (s *Sequence) Summary() Summary {
	c, v := s.Finalize()
	return Summary{
		Total:      c + v,
		Consonants: c,
		Vowels:     v,
		Pairs:      s.AnalyzePairs(),
	}
}

// ErrInvalidSummary is returned by Summary.Check for inconsistent counts.
var ErrInvalidSummary = errors.New("inconsistent summary")

// Summary is the full statistical output for a body of text.
type Summary struct {
	Total      int   `json:"total" yaml:"total" msgpack:"total"`
	Consonants int   `json:"consonants" yaml:"consonants" msgpack:"consonants"`
	Vowels     int   `json:"vowels" yaml:"vowels" msgpack:"vowels"`
	Pairs      Pairs `json:"pairs" yaml:"pairs" msgpack:"pairs"`
}

// Add merges two summaries. Transitions across the boundary between the two
// source texts are not counted.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Total:      s.Total + o.Total,
		Consonants: s.Consonants + o.Consonants,
		Vowels:     s.Vowels + o.Vowels,
		Pairs:      s.Pairs.Add(o.Pairs),
	}
}

// Check reports whether s could have come from a single Sequence: no
// negative fields, Consonants+Vowels equal to Total, one pair per adjacent
// position, and no class leaving more often than it occurs. Sums built with
// Add are not single-sequence summaries and generally fail the pair rule.
func (s Summary) Check() error {
	p := s.Pairs
	switch {
	case s.Total < 0 || s.Consonants < 0 || s.Vowels < 0 || p.CC < 0 || p.CV < 0 || p.VC < 0 || p.VV < 0:
		return fmt.Errorf("%w: negative count", ErrInvalidSummary)
	case s.Consonants+s.Vowels != s.Total:
		return fmt.Errorf("%w: %d consonants + %d vowels != total %d", ErrInvalidSummary, s.Consonants, s.Vowels, s.Total)
	case p.Total() != max(0, s.Total-1):
		return fmt.Errorf("%w: %d pairs for %d letters", ErrInvalidSummary, p.Total(), s.Total)
	case p.CC+p.CV > s.Consonants || p.VC+p.VV > s.Vowels:
		return fmt.Errorf("%w: more transitions than letters of a class", ErrInvalidSummary)
	}
	return nil
}

// Model builds the transition model for this summary.
func (s Summary) Model() *Model {
	return FromStats(s.Consonants, s.Vowels, s.Pairs)
}
