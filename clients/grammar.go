package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/time/rate"
)

const (
	maxSuggestions = 3

	// Public LanguageTool-protocol endpoints throttle aggressively; stay
	// under 20 requests per minute unless configured otherwise.
	defaultGrammarRPM = 20
)

// GrammarError describes one detected grammar issue.
type GrammarError struct {
	Message     string   `json:"error"`
	ErrText     string   `json:"err_text"`
	Suggestions []string `json:"suggestions"`
	Context     string   `json:"context"`
}

// GrammarReport is the grammar collaborator's output: the corrected text
// and the ordered list of detected errors. A report with ErrorCount 0 and
// Corrected == Original is the fail-open form.
type GrammarReport struct {
	Original   string         `json:"-"`
	Corrected  string         `json:"corrected"`
	Errors     []GrammarError `json:"errors"`
	ErrorCount int            `json:"error_count"`
}

// FailOpen builds the degraded report used when the grammar collaborator
// is unavailable: uncorrected text, zero errors.
func FailOpen(text string) GrammarReport {
	return GrammarReport{Original: text, Corrected: text, Errors: []GrammarError{}}
}

// GrammarChecker calls a LanguageTool-protocol HTTP service.
type GrammarChecker struct {
	url      string
	language string
	c        *http.Client
	limiter  *rate.Limiter
}

func NewGrammarChecker(serviceURL string) *GrammarChecker {
	return &GrammarChecker{
		url:      serviceURL,
		language: "en-US",
		c:        newHTTPClient(),
		limiter:  rate.NewLimiter(rate.Limit(float64(defaultGrammarRPM)/60.0), 1),
	}
}

// ltMatch mirrors the LanguageTool v2 match shape.
type ltMatch struct {
	Message      string          `json:"message"`
	Offset       int             `json:"offset"`
	Length       int             `json:"length"`
	Replacements []ltReplacement `json:"replacements"`
	Context      struct {
		Text string `json:"text"`
	} `json:"context"`
}

type ltReplacement struct {
	Value string `json:"value"`
}

type ltResponse struct {
	Matches []ltMatch `json:"matches"`
}

// Check submits text and converts the matches into a GrammarReport. The
// corrected text applies each match's first suggestion.
func (g *GrammarChecker) Check(ctx context.Context, text string) (GrammarReport, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return GrammarReport{}, fmt.Errorf("grammar rate limiter: %w", err)
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", g.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.url+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return GrammarReport{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.c.Do(req)
	if err != nil {
		return GrammarReport{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return GrammarReport{}, fmt.Errorf("grammar %s: %s", resp.Status, string(body))
	}

	var out ltResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return GrammarReport{}, fmt.Errorf("grammar decode: %w", err)
	}
	return buildReport(text, out.Matches), nil
}

func buildReport(text string, matches []ltMatch) GrammarReport {
	rep := GrammarReport{Original: text, Errors: []GrammarError{}}
	runes := []rune(text)

	for _, m := range matches {
		suggestions := make([]string, 0, maxSuggestions)
		for _, r := range m.Replacements {
			suggestions = append(suggestions, r.Value)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
		rep.Errors = append(rep.Errors, GrammarError{
			Message:     m.Message,
			ErrText:     sliceRunes(runes, m.Offset, m.Length),
			Suggestions: suggestions,
			Context:     m.Context.Text,
		})
	}
	rep.ErrorCount = len(rep.Errors)
	rep.Corrected = applyCorrections(runes, matches)
	return rep
}

// applyCorrections replaces each match with its first suggestion. Matches
// are applied right to left so earlier offsets stay valid.
func applyCorrections(runes []rune, matches []ltMatch) string {
	ordered := make([]ltMatch, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Offset > ordered[j].Offset })

	out := runes
	for _, m := range ordered {
		if len(m.Replacements) == 0 {
			continue
		}
		if m.Offset < 0 || m.Offset+m.Length > len(out) {
			continue
		}
		repl := []rune(m.Replacements[0].Value)
		next := make([]rune, 0, len(out)-m.Length+len(repl))
		next = append(next, out[:m.Offset]...)
		next = append(next, repl...)
		next = append(next, out[m.Offset+m.Length:]...)
		out = next
	}
	return string(out)
}

func sliceRunes(runes []rune, offset, length int) string {
	if offset < 0 || offset+length > len(runes) {
		return ""
	}
	return string(runes[offset : offset+length])
}
