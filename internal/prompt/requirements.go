package prompt

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	headingPattern  = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	checkboxPattern = regexp.MustCompile(`^[-*+]\s+\[[ xX]\]\s+(.+)$`)
	listItemPattern = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+(.+)$`)

	// cuePattern flags wording that states an obligation or constraint.
	cuePattern = regexp.MustCompile(`(?i)\b(must|should|shall|required?|requires|requirements?|needs? to|has to|have to|never|always|do not|don['’]t|make sure|ensure)\b`)

	// modalPattern is the subset of cues that make a short line an instruction rather than a label.
	modalPattern = regexp.MustCompile(`(?i)\b(must|should|shall|needs? to|has to|have to|never|always|do not|don['’]t|make sure|ensure)\b`)

	// sectionPattern flags headings that introduce a block of requirements.
	sectionPattern = regexp.MustCompile(`(?i)\b(requirements?|acceptance criteria|constraints?|must|should|definition of done|expected behaviou?r|to ?do|tasks?)\b`)
)

// imperativeVerbs are sentence openers treated as instructions.
var imperativeVerbs = map[string]struct{}{
	"add": {}, "allow": {}, "avoid": {}, "build": {}, "cache": {}, "change": {}, "check": {}, "convert": {},
	"create": {}, "delete": {}, "disable": {}, "display": {}, "enable": {}, "ensure": {}, "export": {},
	"expose": {}, "extend": {}, "fix": {}, "generate": {}, "handle": {}, "hide": {}, "implement": {},
	"import": {}, "improve": {}, "include": {}, "integrate": {}, "keep": {}, "limit": {}, "link": {},
	"load": {}, "log": {}, "make": {}, "migrate": {}, "move": {}, "prevent": {}, "provide": {},
	"refactor": {}, "remove": {}, "rename": {}, "replace": {}, "reset": {}, "restrict": {}, "return": {},
	"save": {}, "send": {}, "set": {}, "show": {}, "sort": {}, "split": {}, "store": {}, "support": {},
	"sync": {}, "track": {}, "update": {}, "upgrade": {}, "use": {}, "validate": {}, "verify": {},
	"write": {},
}

// ExtractRequirements returns, in source order, the parts of body that read as instructions or constraints.
// Items are copied verbatim; only surrounding whitespace and list/checkbox markers are dropped.
// Fenced code, headings, block quotes and HTML comments are never extracted.
func ExtractRequirements(body string) []string {
	requirements := make([]string, 0)

	var (
		inFence      bool
		inSection    bool // under a requirements-style heading
		inLabel      bool // after a label such as "Requirements:", until a blank line ends it
		labelItems   int
		inCueListing bool // list following a line like "The export must include:"
	)

	for _, raw := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if line == "" {
			if inLabel && labelItems > 0 {
				inLabel = false
			}
			continue
		}
		if strings.HasPrefix(line, ">") || strings.HasPrefix(line, "<!--") {
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			inSection = sectionPattern.MatchString(m[1])
			inLabel, inCueListing = false, false
			continue
		}

		if m := checkboxPattern.FindStringSubmatch(line); m != nil {
			requirements = append(requirements, strings.TrimSpace(m[1]))
			if inLabel {
				labelItems++
			}
			continue
		}

		if m := listItemPattern.FindStringSubmatch(line); m != nil {
			item := strings.TrimSpace(m[1])
			if inSection || inLabel || inCueListing || isRequirement(item) {
				requirements = append(requirements, item)
				if inLabel {
					labelItems++
				}
			}
			continue
		}

		// Prose line. A trailing colon on a cue line opens a listing.
		inCueListing = false
		if isSectionLabel(line) {
			inLabel, labelItems = true, 0
			continue
		}
		if inSection || inLabel {
			requirements = append(requirements, line)
			if inLabel {
				labelItems++
			}
			continue
		}
		for _, sentence := range splitSentences(line) {
			if isRequirement(sentence) {
				requirements = append(requirements, sentence)
			}
		}
		if strings.HasSuffix(line, ":") && isRequirement(line) {
			inCueListing = true
		}
	}

	return requirements
}

// isSectionLabel reports bold or colon-terminated labels such as "**Acceptance criteria**" or "Requirements:".
// Lines that read as instructions ("Fix all tasks:", "Must support:") are not labels.
func isSectionLabel(line string) bool {
	label := strings.Trim(line, "*_ ")
	if !strings.HasSuffix(label, ":") && label == line {
		return false
	}
	label = strings.TrimSuffix(strings.Trim(label, "*_ "), ":")
	if len(strings.Fields(label)) > 3 {
		return false
	}
	if startsWithImperative(label) || modalPattern.MatchString(label) {
		return false
	}
	return sectionPattern.MatchString(label)
}

func isRequirement(text string) bool {
	if cuePattern.MatchString(text) {
		return true
	}
	return startsWithImperative(text)
}

func startsWithImperative(text string) bool {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	if len(words) == 0 {
		return false
	}
	first := strings.ToLower(words[0])
	if first == "please" && len(words) > 1 {
		first = strings.ToLower(words[1])
	}
	_, ok := imperativeVerbs[first]
	return ok
}

// splitSentences splits prose at terminal punctuation followed by whitespace and an upper-case letter.
func splitSentences(line string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		end := i + 1
		for end < len(line) && strings.ContainsRune(`"')]`, rune(line[end])) {
			end++
		}
		next := end
		for next < len(line) && line[next] == ' ' {
			next++
		}
		if next == end || next >= len(line) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(line[next:])
		if !unicode.IsUpper(r) {
			continue
		}
		if s := strings.TrimSpace(line[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = next
		i = next - 1
	}

	if s := strings.TrimSpace(line[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
