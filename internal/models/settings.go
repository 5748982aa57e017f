package models

// Settings represents application-wide settings
type Settings struct {
	Timezone        string `json:"timezone"`          // IANA timezone name (e.g. "Europe/London", or "Local" for system timezone)
	TopReasonsLimit int    `json:"top_reasons_limit"` // how many reasons the month view ranks
}
