package notifications

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrSettingsNotFound     = errors.New("settings not found")
)
