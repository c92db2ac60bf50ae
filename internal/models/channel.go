package models

import "fmt"

// Channel is a delivery route for notifications and reports.
type Channel string

const (
	ChannelPush  Channel = "push"  // Telegram message
	ChannelEmail Channel = "email" // SMTP
)

func (c Channel) IsValid() bool {
	return c == ChannelPush || c == ChannelEmail
}

type Channels []Channel

// ParseChannels converts stored strings into Channels. Unknown values are
// dropped and reported through the error; the valid subset is still returned.
func ParseChannels(values []string) (Channels, error) {
	var (
		out     Channels
		invalid []string
	)
	for _, v := range values {
		c := Channel(v)
		if !c.IsValid() {
			invalid = append(invalid, v)
			continue
		}
		if !out.Contains(c) {
			out = append(out, c)
		}
	}
	if len(invalid) > 0 {
		return out, fmt.Errorf("unknown channels %v", invalid)
	}
	return out, nil
}

func (cs Channels) Contains(c Channel) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

func (cs Channels) Strings() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
