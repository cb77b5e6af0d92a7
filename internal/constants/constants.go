package constants

// Task field limits
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxTags              = 10
	MaxTagLength         = 50
)

// Recurrence day bounds
const (
	MinWeekday  = 1 // Monday
	MaxWeekday  = 7 // Sunday
	MinMonthDay = 1
	MaxMonthDay = 31
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
