package command

import "strings"

// Parse classifies raw message text. It has no side effects.
//
// "/ask" counts as the ask prefix only when it is the whole trimmed text or
// is followed by a space, so "/ask   " is an empty question while
// "/asking" and "/ask\thi" are unrecognized.
func Parse(text string) Command {
	text = strings.TrimSpace(text)

	if rest, ok := cutAskPrefix(text); ok {
		question := strings.TrimSpace(rest)
		if question == "" {
			return Command{Kind: KindAsk, Err: ErrEmptyQuestion}
		}
		return Command{Kind: KindAsk, Question: question}
	}

	if text == LiteralClear {
		return Command{Kind: KindClear}
	}

	return Command{Kind: KindUnrecognized}
}

func cutAskPrefix(text string) (string, bool) {
	if text == PrefixAsk {
		return "", true
	}
	return strings.CutPrefix(text, PrefixAsk+" ")
}
