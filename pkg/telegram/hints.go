package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/tgcast/pkg/domain"
)

// Hints suggests how to fix a rejected delivery. Only Bot API errors produce hints.
func Hints(dest domain.Destination, err error) []string {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return nil
	}

	desc := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(desc, "chat not found"):
		return []string{"make sure the bot was added to the group or channel, or the user has started a conversation with it"}
	case strings.Contains(desc, "bad request"):
		if dest.IsUsername() {
			return []string{
				fmt.Sprintf("check that the username is correct: %s", dest),
				"make sure it is a public channel or group, or that the bot has access to it",
			}
		}
		return []string{fmt.Sprintf("check that the chat id is correct: %s", dest)}
	}
	return nil
}
