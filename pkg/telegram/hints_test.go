package telegram

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/tgcast/pkg/domain"
)

func TestHints(t *testing.T) {
	tests := []struct {
		name string
		dest domain.Destination
		err  error
		want []string
	}{
		{
			name: "chat not found wins over bad request",
			dest: "123",
			err:  &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"},
			want: []string{"make sure the bot was added to the group or channel, or the user has started a conversation with it"},
		},
		{
			name: "bad request for username",
			dest: "@news",
			err:  &tgbotapi.Error{Code: 400, Message: "Bad Request: message text is empty"},
			want: []string{
				"check that the username is correct: @news",
				"make sure it is a public channel or group, or that the bot has access to it",
			},
		},
		{
			name: "bad request for numeric id",
			dest: "-100500",
			err:  &tgbotapi.Error{Code: 400, Message: "BAD REQUEST: can't parse entities"},
			want: []string{"check that the chat id is correct: -100500"},
		},
		{
			name: "wrapped provider error",
			dest: "42",
			err:  fmt.Errorf("42: %w", &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}),
			want: []string{"make sure the bot was added to the group or channel, or the user has started a conversation with it"},
		},
		{
			name: "other provider error",
			dest: "42",
			err:  &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was kicked"},
		},
		{
			name: "transport error",
			dest: "42",
			err:  &TransportError{Err: errors.New("connection refused")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hints(tt.dest, tt.err); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Hints() = %q, want %q", got, tt.want)
			}
		})
	}
}
