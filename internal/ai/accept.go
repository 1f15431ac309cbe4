package ai

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rules tune the acceptance classifier for a kind of generated text.
type Rules struct {
	MinLength int
	MaxLength int
	// AllowPersonal permits first and second person pronouns.
	AllowPersonal bool
	// RequirePeriod demands the text ends like a sentence.
	RequirePeriod bool
}

var (
	// SummaryRules apply to generated professional summaries.
	SummaryRules = Rules{MinLength: 31, MaxLength: 700, RequirePeriod: true}
	// BulletRules apply to rewritten experience bullets.
	BulletRules = Rules{MinLength: 15, MaxLength: 300}
	// LetterRules apply to cover letters.
	LetterRules = Rules{MinLength: 120, MaxLength: 4000, AllowPersonal: true, RequirePeriod: true}
)

var openingBlocklist = []string{
	"the user wants",
	"the user",
	"they want",
	"we need",
	"we are",
	"since the user",
	"no explanation",
	"just the",
	"let me",
	"here is",
	"here's",
	"i understand",
	"the prompt",
	"based on",
	"okay",
	"sure",
	"as requested",
	"certainly",
}

// metaPhrases are rejected anywhere in the text. They talk about the request
// itself, so plain resume wording such as "the user experience" passes.
var metaPhrases = []string{
	"the user wants",
	"the user asked",
	"the user needs",
	"the user requested",
	"requested by the user",
	"as the prompt",
	"the prompt asks",
	"the prompt says",
	"as an ai",
	"language model",
	"the instructions",
	"no explanation",
	"word count",
	"sentence 1",
	"sentence one",
	"2-sentence",
	"two-sentence",
}

var personalPronouns = map[string]struct{}{
	"i": {}, "i'm": {}, "i've": {}, "i'll": {}, "i'd": {}, "me": {}, "my": {},
	"we": {}, "we're": {}, "we'll": {}, "our": {},
	"you": {}, "you're": {}, "your": {},
}

var (
	labelRe      = regexp.MustCompile(`^(?i)(?:\*\*)?(?:professional\s+)?(?:summary|bullet|answer|output|result|cover\s+letter)(?:\*\*)?\s*:\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// AcceptProse validates a generated summary with SummaryRules.
func AcceptProse(raw string) (string, bool) {
	return Accept(raw, SummaryRules)
}

// Accept cleans raw model output and reports whether it can be shown to a
// user. Rejected output must be replaced by deterministic text.
func Accept(raw string, rules Rules) (string, bool) {
	text := clean(raw, !rules.AllowPersonal)
	if text == "" {
		return "", false
	}

	length := utf8.RuneCountInString(text)
	if rules.MinLength > 0 && length < rules.MinLength {
		return "", false
	}
	if rules.MaxLength > 0 && length > rules.MaxLength {
		return "", false
	}

	words := tokenize(text)
	if len(words) == 0 {
		return "", false
	}

	opening := strings.Join(words[:min(3, len(words))], " ")
	for _, phrase := range openingBlocklist {
		if opening == phrase || strings.HasPrefix(opening, phrase+" ") {
			return "", false
		}
	}

	lower := strings.ToLower(text)
	for _, phrase := range metaPhrases {
		if strings.Contains(lower, phrase) {
			return "", false
		}
	}

	if !rules.AllowPersonal {
		for _, w := range words {
			if _, ok := personalPronouns[w]; ok {
				return "", false
			}
		}
	}

	first, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		return "", false
	}

	if rules.RequirePeriod {
		last, _ := utf8.DecodeLastRuneInString(text)
		if last != '.' && last != '!' {
			return "", false
		}
	}

	return text, true
}

func clean(raw string, flatten bool) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	text = labelRe.ReplaceAllString(text, "")
	text = strings.Trim(text, "\"'` \n\t")
	if flatten {
		text = whitespaceRe.ReplaceAllString(text, " ")
	}
	return strings.TrimSpace(text)
}

func tokenize(text string) []string {
	normalized := strings.ReplaceAll(strings.ToLower(text), "’", "'")
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'-"); f != "" {
			out = append(out, f)
		}
	}
	return out
}
