package fileadapter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aletheia/internal/models"
)

func TestSegmentTranscriptAlternatesRoles(t *testing.T) {
	adapter := testAdapter()
	text := strings.Join([]string{
		"What is the nature of being?",
		"",
		"Being is unconcealment, the emergence of what is.",
		"",
		"Can that be proven?",
		"",
		"Proof presupposes the very disclosure it asks for.",
		"",
		"Then where does certainty come from?",
		"",
		"From the ground that makes questioning possible at all.",
	}, "\n")

	entries := adapter.SegmentTranscript(text)

	require.Len(t, entries, 6)
	for i, e := range entries {
		if i%2 == 0 {
			assert.Equal(t, RolePrimary, e.Role, "entry %d", i)
		} else {
			assert.Equal(t, RoleSecondary, e.Role, "entry %d", i)
		}
	}
}

func TestSegmentTranscriptTimestamps(t *testing.T) {
	adapter := testAdapter() // FixedJitter of 5 minutes
	entries := adapter.SegmentTranscript("first turn\n\nsecond turn\n\nthird turn")

	require.Len(t, entries, 3)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", entries[0].Timestamp)
	assert.Equal(t, "2024-01-01T00:05:00.000Z", entries[1].Timestamp)
	assert.Equal(t, "2024-01-01T00:10:00.000Z", entries[2].Timestamp)
}

func TestSegmentTranscriptSkipsEmptyParagraphs(t *testing.T) {
	adapter := testAdapter()
	// Consecutive blank lines and whitespace-only paragraphs must not
	// flip the speaker.
	entries := adapter.SegmentTranscript("one\n\n\n\n   \n\ntwo\n\nthree")

	require.Len(t, entries, 3)
	assert.Equal(t, RolePrimary, entries[0].Role)
	assert.Equal(t, RoleSecondary, entries[1].Role)
	assert.Equal(t, RolePrimary, entries[2].Role)
}

func TestSegmentTranscriptMultilineParagraph(t *testing.T) {
	adapter := testAdapter()
	entries := adapter.SegmentTranscript("line one\nline two\n\nreply")

	require.Len(t, entries, 2)
	assert.Equal(t, "line one\nline two", entries[0].Content)
	assert.Equal(t, "reply", entries[1].Content)
}

func TestSegmentTranscriptExternalIDs(t *testing.T) {
	adapter := testAdapter()
	entries := adapter.SegmentTranscript("alpha\n\nbeta")

	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].ExternalID, "md_conv_0_")
	assert.Contains(t, entries[1].ExternalID, "md_conv_1_")
	assert.NotEqual(t, entries[0].ExternalID, entries[1].ExternalID)
}

func TestSegmentTranscriptEmptyInput(t *testing.T) {
	adapter := testAdapter()
	assert.Empty(t, adapter.SegmentTranscript(""))
	assert.Empty(t, adapter.SegmentTranscript("\n\n   \n\n"))
}

func TestValidateSegments(t *testing.T) {
	adapter := testAdapter()

	entry := func(role, content string) models.GnosisEntry {
		return models.GnosisEntry{Role: role, Content: content}
	}

	t.Run("empty transcript is invalid", func(t *testing.T) {
		report := adapter.ValidateSegments(nil)
		assert.False(t, report.Valid)
		assert.NotEmpty(t, report.Warnings)
	})

	t.Run("single message warns but stays valid", func(t *testing.T) {
		report := adapter.ValidateSegments([]models.GnosisEntry{
			entry(RolePrimary, "a perfectly reasonable message"),
		})
		assert.True(t, report.Valid)
		assert.Contains(t, strings.Join(report.Warnings, " "), "fewer than 2")
	})

	t.Run("one-sided conversation warns", func(t *testing.T) {
		report := adapter.ValidateSegments([]models.GnosisEntry{
			entry(RolePrimary, "a perfectly reasonable message"),
			entry(RolePrimary, "another reasonable message here"),
		})
		assert.True(t, report.Valid)
		assert.Contains(t, strings.Join(report.Warnings, " "), "one-sided")
	})

	t.Run("skewed speaker distribution warns", func(t *testing.T) {
		report := adapter.ValidateSegments([]models.GnosisEntry{
			entry(RolePrimary, "a perfectly reasonable message"),
			entry(RolePrimary, "another reasonable message here"),
			entry(RolePrimary, "and yet another message to weigh in"),
			entry(RolePrimary, "one more from the same speaker"),
			entry(RoleSecondary, "a lone reply from the other side"),
		})
		assert.True(t, report.Valid)
		assert.Contains(t, strings.Join(report.Warnings, " "), "skewed: 4 vs 1")
	})

	t.Run("short message ratio warns", func(t *testing.T) {
		report := adapter.ValidateSegments([]models.GnosisEntry{
			entry(RolePrimary, "ok"),
			entry(RoleSecondary, "ya"),
			entry(RolePrimary, "hm"),
		})
		assert.True(t, report.Valid)
		assert.Contains(t, strings.Join(report.Warnings, " "), "parse artifacts")
	})

	t.Run("balanced conversation produces no warnings", func(t *testing.T) {
		report := adapter.ValidateSegments([]models.GnosisEntry{
			entry(RolePrimary, "a perfectly reasonable message"),
			entry(RoleSecondary, "and a reasonable reply to it"),
		})
		assert.True(t, report.Valid)
		assert.Empty(t, report.Warnings)
	})
}

func TestRandomJitterBounds(t *testing.T) {
	j := NewRandomJitter()
	for i := 0; i < 200; i++ {
		d := j.Interval()
		assert.GreaterOrEqual(t, d, 2*time.Minute)
		assert.LessOrEqual(t, d, 30*time.Minute)
	}
}
