/*
Package letters classifies ASCII text into vowels and consonants and derives
the first-order statistics needed for a two-state Markov chain: per-class
counts, adjacent pair tallies, and the transition probabilities built from them.

Text is fed to a Sequence in one or more chunks. Each chunk is normalized
(ASCII whitespace and punctuation removed), validated (only ASCII letters may
remain) and classified before being appended, so a Sequence never holds a
letter that came from invalid input.

	seq := letters.New()
	if err := seq.Update("Hello, world"); err != nil {
		// errors.Is(err, letters.ErrCharacterIsNumber) etc.
	}
	sum := seq.Summary()
	model := sum.Model()
	if next, ok := model.Next(letters.Consonant); ok {
		fmt.Println(next.Vowel) // P(vowel | consonant)
	}
*/
package letters
