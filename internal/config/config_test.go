package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/practice-engine/internal/events"
	"github.com/SAP-F-2025/practice-engine/internal/models"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendFile, cfg.LedgerBackend)
	assert.Equal(t, BackendFile, cfg.WritingBackend)
	assert.Empty(t, cfg.LateSubmitDisabled)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "channel", cfg.Events.Publisher)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEDGER_BACKEND", "redis")
	t.Setenv("WRITING_BACKEND", "postgres")
	t.Setenv("LATE_SUBMIT_DISABLED", "essay, reorder")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.UsesRedis())
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, []models.ExerciseType{models.Essay, models.Reorder}, cfg.LateSubmitDisabled)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.GetKafkaBrokers())
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("PORT=9999\nLEDGER_BACKEND=memory\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("LEDGER_BACKEND")
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.LedgerBackend)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown ledger backend", "LEDGER_BACKEND", "s3"},
		{"unknown environment", "ENVIRONMENT", "staging"},
		{"unknown exercise type", "LATE_SUBMIT_DISABLED", "matching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestCreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	disabled := EventConfig{Enabled: false}
	p, err := disabled.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, p)

	channel := EventConfig{Enabled: true, Publisher: "channel", SessionTopic: "t"}
	p, err = channel.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.ChannelEventPublisher{}, p)
	require.NoError(t, p.Close())

	unknown := EventConfig{Enabled: true, Publisher: "nats"}
	p, err = unknown.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, p)
}
