package session

import (
	"strconv"
	"strings"
)

// ChatPrefix is the key prefix of bot sessions.
const ChatPrefix = "chat:"

// ChatKey returns the session slot of a chat.
func ChatKey(chatID int64) string {
	return ChatPrefix + strconv.FormatInt(chatID, 10)
}

// ChatID extracts the chat id from a key made by ChatKey.
func ChatID(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, ChatPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
