package letters

// Letter is the class of a single validated character.
type Letter uint8

const (
	// Consonant is any ASCII letter that is not a vowel.
	Consonant Letter = iota
	// Vowel is one of a, e, i, o, u in either ASCII case.
	Vowel
)

// String returns "C" or "V".
func (l Letter) String() string {
	if l == Vowel {
		return "V"
	}
	return "C"
}

// Classify returns the class of an ASCII letter. The caller must only pass
// characters that have passed Validate. Upper case vowels are vowels too.
func Classify(c byte) Letter {
	// Fold ASCII upper case onto lower case.
	switch c | 0x20 {
	case 'a', 'e', 'i', 'o', 'u':
		return Vowel
	default:
		return Consonant
	}
}

// Pair is the ordered transition between two adjacent letters.
type Pair uint8

const (
	CC Pair = iota // consonant followed by consonant
	CV             // consonant followed by vowel
	VC             // vowel followed by consonant
	VV             // vowel followed by vowel
)

// PairOf returns the transition from cur to next.
func PairOf(cur, next Letter) Pair {
	return Pair(cur)<<1 | Pair(next)
}

// String returns the two letter name of the pair, e.g. "CV".
func (p Pair) String() string {
	switch p {
	case CC:
		return "CC"
	case CV:
		return "CV"
	case VC:
		return "VC"
	case VV:
		return "VV"
	}
	return "??"
}

// Pairs holds the tally of every transition type in a sequence.
type Pairs struct {
	CC int `json:"cc" yaml:"cc" msgpack:"cc"`
	CV int `json:"cv" yaml:"cv" msgpack:"cv"`
	VC int `json:"vc" yaml:"vc" msgpack:"vc"`
	VV int `json:"vv" yaml:"vv" msgpack:"vv"`
}

// Total is the number of transitions tallied.
func (p Pairs) Total() int {
	return p.CC + p.CV + p.VC + p.VV
}

// Get returns the tally for a single transition type.
func (p Pairs) Get(pair Pair) int {
	switch pair {
	case CC:
		return p.CC
	case CV:
		return p.CV
	case VC:
		return p.VC
	case VV:
		return p.VV
	}
	return 0
}

// Add returns the element-wise sum of two tallies.
func (p Pairs) Add(o Pairs) Pairs {
	return Pairs{
		CC: p.CC + o.CC,
		CV: p.CV + o.CV,
		VC: p.VC + o.VC,
		VV: p.VV + o.VV,
	}
}

func (p *Pairs) inc(pair Pair) {
	switch pair {
	case CC:
		p.CC++
	case CV:
		p.CV++
	case VC:
		p.VC++
	case VV:
		p.VV++
	}
}
