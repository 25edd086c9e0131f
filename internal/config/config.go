package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Practice PracticeConfig `mapstructure:"practice" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// PracticeConfig contains the exercise preferences applied when building
// practice session queues.
type PracticeConfig struct {
	// EnabledExerciseTypes is the set of exercise types sessions may draw
	// from. Types a card cannot structurally support are skipped per card.
	EnabledExerciseTypes []string `mapstructure:"enabled_exercise_types" validate:"required,min=1,dive,oneof=reading_recognition writing_translation reverse_translation multiple_choice article_drill conjugation_drill sentence_building icon_match"`

	// PrioritizeWeaknesses biases queue order toward exercise types whose
	// success rate is below WeaknessThreshold.
	PrioritizeWeaknesses bool `mapstructure:"prioritize_weaknesses"`

	// WeaknessThreshold is the success-rate percentage below which an
	// exercise type counts as a weakness.
	WeaknessThreshold float64 `mapstructure:"weakness_threshold" validate:"gte=0,lte=100"`

	// SaveQueueSize is the buffer size of the background card saver.
	SaveQueueSize int `mapstructure:"save_queue_size" validate:"gt=0"`
}
