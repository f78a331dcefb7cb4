package letters

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotASCII is matched by validation errors for input holding a non-ASCII byte.
	ErrNotASCII = errors.New("input string contains non-ascii characters")
	// ErrCharacterIsNumber is matched by validation errors for an ASCII digit.
	ErrCharacterIsNumber = errors.New("character is a number")
	// ErrNotAlphabetic is matched by validation errors for any other non-letter ASCII character.
	ErrNotAlphabetic = errors.New("character is not an alphabetic character")
)

// ErrorKind identifies which validation rule an input broke.
type ErrorKind uint8

const (
	NotASCII ErrorKind = iota
	CharacterIsNumber
	NotASCIIAlphabetic
)

func (k ErrorKind) String() string {
	switch k {
	case NotASCII:
		return "not_ascii"
	case CharacterIsNumber:
		return "character_is_number"
	case NotASCIIAlphabetic:
		return "not_ascii_alphabetic"
	}
	return "unknown"
}

// ValidationError is returned by Validate and Sequence.Update. Char holds the
// offending character; it is zero for NotASCII.
type ValidationError struct {
	Kind ErrorKind
	Char byte
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case CharacterIsNumber:
		return fmt.Sprintf("character %q is a number", e.Char)
	case NotASCIIAlphabetic:
		return fmt.Sprintf("character %q is not an alphabetic character", e.Char)
	default:
		return ErrNotASCII.Error()
	}
}

// Is lets errors.Is match a ValidationError against the package sentinels.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrNotASCII:
		return e.Kind == NotASCII
	case ErrCharacterIsNumber:
		return e.Kind == CharacterIsNumber
	case ErrNotAlphabetic:
		return e.Kind == NotASCIIAlphabetic
	}
	return false
}

// Normalize removes ASCII whitespace and ASCII punctuation from input. All
// other characters, digits and non-ASCII runes included, are kept as they are.
func Normalize(input string) string {
	return strings.Map(func(r rune) rune {
		if isASCIIWhitespace(r) || isASCIIPunctuation(r) {
			return -1
		}
		return r
	}, input)
}

// Validate checks that normalized input holds nothing but ASCII letters.
// A non-ASCII byte anywhere fails the whole input with NotASCII; otherwise
// the first offending character from the left is reported.
func Validate(input string) error {
	for i := 0; i < len(input); i++ {
		if input[i] >= 0x80 {
			return &ValidationError{Kind: NotASCII}
		}
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		if isASCIIAlpha(c) {
			continue
		}
		if c >= '0' && c <= '9' {
			return &ValidationError{Kind: CharacterIsNumber, Char: c}
		}
		return &ValidationError{Kind: NotASCIIAlphabetic, Char: c}
	}
	return nil
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// WHATWG ASCII whitespace; vertical tab is not part of the set.
func isASCIIWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func isASCIIPunctuation(r rune) bool {
	return (r >= '!' && r <= '/') ||
		(r >= ':' && r <= '@') ||
		(r >= '[' && r <= '`') ||
		(r >= '{' && r <= '~')
}
