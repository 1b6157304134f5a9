package domain

import "strings"

// Destination is a Telegram chat identifier: a numeric chat id or an @username.
type Destination string

func (d Destination) IsUsername() bool {
	return strings.HasPrefix(string(d), "@")
}

func (d Destination) String() string { return string(d) }
