package channeltalk

import "strings"

// FlattenBlocks renders a structured block list as plain text. The transform
// is deterministic and lossy: structural metadata is discarded, only
// human-readable text and simple markers survive.
func FlattenBlocks(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			parts = append(parts, b.Value)
		case "code":
			parts = append(parts, b.Value)
		case "bullets":
			for _, child := range b.Blocks {
				parts = append(parts, "• "+child.Value)
			}
		default:
			if b.Value != "" {
				parts = append(parts, b.Value)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// TextToBlocks converts outbound markdown-ish text into Channel Talk message
// blocks: fenced code segments become code blocks, everything else becomes
// text blocks. Input with no triple-backtick fence round-trips to a single
// text block containing the original string, newlines preserved.
func TextToBlocks(text string) []Block {
	if !strings.Contains(text, "```") {
		return []Block{{Type: "text", Value: text}}
	}

	var blocks []Block
	segments := strings.Split(text, "```")
	for i, seg := range segments {
		if i%2 == 0 {
			// Outside a fence.
			if strings.TrimSpace(seg) == "" {
				continue
			}
			blocks = append(blocks, Block{Type: "text", Value: strings.Trim(seg, "\n")})
			continue
		}

		// Inside a fence: an optional language tag occupies the first line.
		lang, code := splitFenceLanguage(seg)
		blocks = append(blocks, Block{Type: "code", Language: lang, Value: code})
	}

	if len(blocks) == 0 {
		blocks = []Block{{Type: "text", Value: text}}
	}
	return blocks
}

// splitFenceLanguage separates the language tag from the code body of a
// fenced segment. A tag is a single token on the fence's opening line.
func splitFenceLanguage(seg string) (lang, code string) {
	nl := strings.IndexByte(seg, '\n')
	if nl < 0 {
		return "", strings.Trim(seg, "\n")
	}
	first := strings.TrimSpace(seg[:nl])
	rest := strings.Trim(seg[nl+1:], "\n")
	if first != "" && !strings.ContainsAny(first, " \t") {
		return first, rest
	}
	return "", strings.Trim(seg, "\n")
}
