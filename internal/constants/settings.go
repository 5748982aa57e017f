package constants

const (
	SettingTimezone        = "timezone"
	SettingTopReasonsLimit = "top_reasons_limit"

	DefaultTimezone        = "Local" // Use system local timezone by default
	DefaultTopReasonsLimit = 10
)
