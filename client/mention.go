package client

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mention tells how a group message addresses the reader.
type Mention int

const (
	MentionNone Mention = iota
	MentionMe
	MentionEveryone
)

const everyoneToken = "@All"

func (m Mention) String() string {
	switch m {
	case MentionMe:
		return "me"
	case MentionEveryone:
		return "everyone"
	default:
		return "none"
	}
}

// ClassifyMention looks for an @All token first, then for @myName.
// A token must be followed by the end of the text or a rune that is neither
// a letter nor a digit, so "@Allison" mentions nobody.
func ClassifyMention(text, myName string) Mention {
	if text == "" {
		return MentionNone
	}
	if containsToken(text, everyoneToken) {
		return MentionEveryone
	}
	if myName = strings.TrimSpace(myName); myName != "" && containsToken(text, "@"+myName) {
		return MentionMe
	}
	return MentionNone
}

func containsToken(text, token string) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], token)
		if i < 0 {
			return false
		}
		end := offset + i + len(token)
		if end == len(text) {
			return true
		}
		next, _ := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsLetter(next) && !unicode.IsDigit(next) {
			return true
		}
		offset += i + 1
	}
	return false
}
