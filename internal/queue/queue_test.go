package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gold-cinema/internal/model"
)

func sampleEvent() BookingCreatedEvent {
	return NewBookingCreatedEvent(model.Booking{
		ID:          "b-1",
		UserID:      "u-1",
		ScreeningID: "s-1",
		Seats:       model.SeatList{"A1", "A2"},
		CreatedAt:   time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC),
	}, "alice", "Parasite")
}

func TestNewBookingCreatedEvent(t *testing.T) {
	ev := sampleEvent()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"booking_id": "b-1",
		"user_id": "u-1",
		"username": "alice",
		"screening_id": "s-1",
		"screening_title": "Parasite",
		"seats": ["A1", "A2"],
		"created_at": "2026-06-01T19:30:00Z"
	}`, string(body))
}

func TestLogLine(t *testing.T) {
	line := sampleEvent().LogLine()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "booking_id=b-1")
	assert.Contains(t, line, `movie="Parasite"`)
	assert.Contains(t, line, "seats=[A1,A2]")
}

func TestConsumerHandle_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	c := NewConsumer("amqp://unused", path, zerolog.Nop())

	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	require.NoError(t, c.Handle(body))
	require.NoError(t, c.Handle(body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestConsumerHandle_RejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.log")
	c := NewConsumer("amqp://unused", path, zerolog.Nop())

	assert.Error(t, c.Handle([]byte("{")))
	assert.Error(t, c.Handle([]byte(`{"user_id":"u"}`)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
