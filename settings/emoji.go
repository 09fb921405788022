package settings

import "fmt"

// EmojiInfo is a custom server emoji. Both Name and ID come from the
// environment, e.g. TROT_RACE_BOT_HORSE_EMOJI_NAME.
type EmojiInfo struct {
	Name     string `env:"NAME"`
	ID       string `env:"ID"`
	Animated bool   `env:"ANIMATED"`
}

func (e EmojiInfo) EmojiCode() string {
	if e.Name == "" || e.ID == "" {
		return ""
	}

	format := "<:%v:%v>"
	if e.Animated {
		format = "<a:%v:%v>"
	}

	return fmt.Sprintf(format, e.Name, e.ID)
}

// Or returns the custom emoji code, or fallback when none is configured.
func (e EmojiInfo) Or(fallback string) string {
	if code := e.EmojiCode(); code != "" {
		return code
	}

	return fallback
}
