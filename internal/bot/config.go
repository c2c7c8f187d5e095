package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Number of lesson questions taught and quizzed together
	LessonBatchSize int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		LessonBatchSize: 5,
	}
}
