package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// MessageLink returns a t.me link to a message. Public chats link by username,
// supergroups by their internal id. Private and basic group chats have no
// message links and yield an empty string.
func MessageLink(chatID int64, chatUsername string, messageID int64) string {
	if chatUsername != "" {
		return fmt.Sprintf("https://t.me/%s/%d", chatUsername, messageID)
	}

	id := strconv.FormatInt(chatID, 10)
	if internal, ok := strings.CutPrefix(id, "-100"); ok && internal != "" {
		return fmt.Sprintf("https://t.me/c/%s/%d", internal, messageID)
	}

	return ""
}

// SplitText splits text into chunks of at most limit runes, preferring line
// breaks as cut points.
func SplitText(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		if currentLen+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()

	return chunks
}
