package model

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeSystem || t == ThemeLight || t == ThemeDark
}

// Resolve turns "system" into the device preference.
func (t Theme) Resolve(system Theme) Theme {
	if t == ThemeSystem {
		if system == ThemeDark {
			return ThemeDark
		}
		return ThemeLight
	}
	return t
}

type Settings struct {
	Theme                Theme `json:"theme"`
	NotificationsEnabled bool  `json:"notifications_enabled"`
}

func DefaultSettings() Settings {
	return Settings{Theme: ThemeSystem, NotificationsEnabled: true}
}
