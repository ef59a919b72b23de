package domain

// Frequency represents the unit a recurrence rule repeats in.
// Value object - immutable string enum.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// BulkDurationOption is a user-facing preset describing how many or which
// future occurrences to generate at once.
// Value object - immutable string enum.
type BulkDurationOption string

const (
	BulkNext1Session  BulkDurationOption = "next_1_session"
	BulkNext2Sessions BulkDurationOption = "next_2_sessions"
	BulkNext3Sessions BulkDurationOption = "next_3_sessions"
	BulkNext4Sessions BulkDurationOption = "next_4_sessions"
	BulkNext5Sessions BulkDurationOption = "next_5_sessions"
	BulkNext6Sessions BulkDurationOption = "next_6_sessions"
	BulkNext7Sessions BulkDurationOption = "next_7_sessions"
	BulkNext8Sessions BulkDurationOption = "next_8_sessions"

	BulkCurrentMonth BulkDurationOption = "current_month"
	BulkNext2Months  BulkDurationOption = "next_2_months"
	BulkNext3Months  BulkDurationOption = "next_3_months"
	BulkNext4Months  BulkDurationOption = "next_4_months"
	BulkNext5Months  BulkDurationOption = "next_5_months"
	BulkNext6Months  BulkDurationOption = "next_6_months"

	BulkCustomRange BulkDurationOption = "custom_range"
)
