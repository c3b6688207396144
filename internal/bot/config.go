package bot

// Config represents the configuration for the bot
type Config struct {
	// Number of words drawn from the backend for one flashcard
	StudyPoolSize int
	// Number of error-book entries shown by /errors
	ErrorListLimit int
	// Days until a word marked unknown comes up for review
	UnknownReviewDelayDays int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		StudyPoolSize:          100,
		ErrorListLimit:         10,
		UnknownReviewDelayDays: 1,
	}
}
