// Package transcript turns a raw transcript string into the lexical and
// structural features the scorers consume: tokens, vocabulary diversity,
// connective counts, readability, and reference similarity.
package transcript

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// NeutralReadability is substituted when the text is too short for the
// reading-ease formula to be meaningful.
const NeutralReadability = 50

// minReadableLen is the text length below which readability defaults.
const minReadableLen = 10

// connectives is the fixed list of complexity indicators.
var connectives = []string{
	"because", "although", "however", "therefore", "moreover",
	"furthermore", "nevertheless", "consequently", "meanwhile",
}

// agreementPatterns are simplified subject-verb-agreement violations used
// as a local fallback when the grammar collaborator reports nothing.
var agreementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(he|she|it)\s+(have|are|do)\b`),
	regexp.MustCompile(`\b(you|we|they)\s+(is|was|has|does)\b`),
	regexp.MustCompile(`\bi\s+(is|are|has|does)\b`),
}

// Transcript is the tokenized view of an utterance.
type Transcript struct {
	Text      string
	Words     []string
	Sentences []string
}

func (t Transcript) WordCount() int     { return len(t.Words) }
func (t Transcript) SentenceCount() int { return len(t.Sentences) }

// Empty reports whether the transcript carries no recognizable words.
// Unrecognized speech is a degenerate input, not an error.
func (t Transcript) Empty() bool { return len(t.Words) == 0 }

// Features are the derived lexical metrics.
type Features struct {
	UniqueRatio     float64 // unique words / total words
	AvgSentenceLen  float64 // words per sentence
	ConnectiveCount int
	Readability     float64 // Flesch reading ease, or NeutralReadability
	AgreementHits   int     // local subject-verb-agreement pattern matches
	Similarity      float64 // edit-distance ratio against reference
	HasReference    bool
}

// Analyze tokenizes text and computes its lexical features. It never fails:
// degenerate input yields an empty Transcript and zeroed Features. When
// reference is non-empty a normalized similarity ratio is included.
func Analyze(text, reference string) (Transcript, Features) {
	tr := Tokenize(text)
	var f Features
	if tr.Empty() {
		if reference != "" {
			f.HasReference = true
		}
		return tr, f
	}

	unique := map[string]struct{}{}
	for _, w := range tr.Words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	f.UniqueRatio = float64(len(unique)) / float64(len(tr.Words))

	if n := tr.SentenceCount(); n > 0 {
		f.AvgSentenceLen = float64(tr.WordCount()) / float64(n)
	}

	lower := strings.ToLower(text)
	for _, c := range connectives {
		if strings.Contains(lower, c) {
			f.ConnectiveCount++
		}
	}

	f.Readability = readingEase(tr)
	f.AgreementHits = AgreementViolations(text)

	if reference != "" {
		f.HasReference = true
		f.Similarity = SimilarityRatio(text, reference)
	}
	return tr, f
}

// Tokenize splits text into words and sentences. Word boundaries follow
// unicode letter/digit classes with in-word apostrophes kept, so "don't"
// is one token. Sentences split on terminal punctuation runs.
func Tokenize(text string) Transcript {
	tr := Transcript{Text: text}

	tr.Words = splitWords(text)

	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		s = strings.TrimSpace(s)
		if s != "" {
			tr.Sentences = append(tr.Sentences, s)
		}
	}
	return tr
}

func splitWords(text string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			if w := strings.Trim(cur.String(), "'"); w != "" {
				words = append(words, w)
			}
			cur.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// SimilarityRatio is a normalized edit-distance similarity in [0, 1]:
// 1 means identical (case-insensitive), 0 means nothing in common.
func SimilarityRatio(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(max)
}

// AgreementViolations counts simplified subject-verb-agreement pattern
// matches in text. It backs the accuracy grammar term when the grammar
// collaborator fails open with an empty report.
func AgreementViolations(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, p := range agreementPatterns {
		n += len(p.FindAllString(lower, -1))
	}
	return n
}

// readingEase computes the Flesch reading-ease score, substituting the
// neutral default for texts too short to measure.
func readingEase(tr Transcript) float64 {
	if len(tr.Text) <= minReadableLen || tr.WordCount() == 0 {
		return NeutralReadability
	}
	sentences := tr.SentenceCount()
	if sentences == 0 {
		sentences = 1
	}
	syllables := 0
	for _, w := range tr.Words {
		syllables += countSyllables(w)
	}
	words := float64(tr.WordCount())
	return 206.835 - 1.015*(words/float64(sentences)) - 84.6*(float64(syllables)/words)
}

// countSyllables estimates syllables as vowel groups, discounting a
// trailing silent e. Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
