package models

// User is a learner who can receive review reminders
type User struct {
	ID                  int64  `json:"id" yaml:"id" db:"id"`
	ChatID              int64  `json:"chat_id" yaml:"chat_id" db:"chat_id"` // Telegram chat for reminders
	Username            string `json:"username" yaml:"username" db:"username"`
	NotificationEnabled bool   `json:"notification_enabled" yaml:"notification_enabled" db:"notification_enabled"`
	NotificationHour    int    `json:"notification_hour" yaml:"notification_hour" db:"notification_hour"` // Hour of day for notifications (0-23)
	WordsPerDay         int    `json:"words_per_day" yaml:"words_per_day" db:"words_per_day"`
}
