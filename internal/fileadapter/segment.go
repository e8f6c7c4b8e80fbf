package fileadapter

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"aletheia/internal/models"
)

// Transcript speaker roles assigned by the turn-taking automaton.
const (
	RolePrimary   = "kai"
	RoleSecondary = "aletheia"
)

// segmentEpoch is the fixed base time for synthesized transcript timestamps.
var segmentEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Jitter produces the synthetic interval between consecutive transcript
// turns. Production uses bounded randomness; tests inject a fixed interval.
type Jitter interface {
	Interval() time.Duration
}

type randomJitter struct {
	rng *rand.Rand
}

// NewRandomJitter returns a jitter drawing 2-30 minute intervals.
func NewRandomJitter() Jitter {
	return &randomJitter{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (j *randomJitter) Interval() time.Duration {
	return time.Duration(2+j.rng.Intn(29)) * time.Minute
}

// FixedJitter always returns the same interval; segmentation becomes fully
// deterministic with it.
type FixedJitter struct {
	D time.Duration
}

func (j FixedJitter) Interval() time.Duration { return j.D }

// SegmentTranscript splits an unlabeled transcript into alternating-speaker
// turns. Paragraphs are delimited by blank lines; the first turn is always
// the primary speaker and every subsequent turn takes the opposite role of
// the previously emitted message, so empty paragraphs cannot desynchronize
// the alternation. A trailing turn without a closing blank line is still
// emitted.
func (a *Adapter) SegmentTranscript(text string) []models.GnosisEntry {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var entries []models.GnosisEntry
	var buffer []string
	lastRole := ""
	ts := segmentEpoch

	emit := func() {
		content := strings.TrimSpace(strings.Join(buffer, "\n"))
		buffer = buffer[:0]
		if content == "" {
			return
		}
		role := RolePrimary
		if lastRole == RolePrimary {
			role = RoleSecondary
		}
		idx := len(entries)
		entries = append(entries, models.GnosisEntry{
			Role:       role,
			Content:    content,
			Timestamp:  ts.UTC().Format(isoMillis),
			ExternalID: fmt.Sprintf("md_conv_%d_%s", idx, contentHash(content)),
			Metadata: map[string]interface{}{
				"platform":     string(PlatformManual),
				"source":       "transcript_segmentation",
				"source_index": idx,
			},
		})
		lastRole = role
		ts = ts.Add(a.jitter.Interval())
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(buffer) > 0 {
				emit()
			}
			continue
		}
		buffer = append(buffer, line)
	}
	if len(buffer) > 0 {
		emit()
	}

	return entries
}

// SegmentReport is the outcome of inspecting a segmented transcript.
// Warnings are advisory; only a zero-message result is invalid.
type SegmentReport struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
}

// ValidateSegments flags likely parse artifacts in a segmented transcript.
func (a *Adapter) ValidateSegments(entries []models.GnosisEntry) SegmentReport {
	report := SegmentReport{Valid: true, Warnings: []string{}}

	if len(entries) == 0 {
		report.Valid = false
		report.Warnings = append(report.Warnings, "no messages parsed from transcript")
		return report
	}
	if len(entries) < 2 {
		report.Warnings = append(report.Warnings, "fewer than 2 messages parsed")
	}

	counts := map[string]int{}
	short := 0
	for _, e := range entries {
		counts[e.Role]++
		if len(e.Content) < a.cfg.Import.ShortMessageLength {
			short++
		}
	}

	primary := counts[RolePrimary]
	secondary := counts[RoleSecondary]
	if primary == 0 || secondary == 0 {
		report.Warnings = append(report.Warnings, "conversation is one-sided: only one speaker detected")
	} else {
		ratio := float64(primary) / float64(secondary)
		if ratio < 1 {
			ratio = 1 / ratio
		}
		if ratio > a.cfg.Import.SpeakerSkewRatio {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("speaker distribution is skewed: %d vs %d", primary, secondary))
		}
	}

	if float64(short)/float64(len(entries)) > a.cfg.Import.ShortMessageRatio {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d of %d messages are shorter than %d characters, likely parse artifacts",
				short, len(entries), a.cfg.Import.ShortMessageLength))
	}

	return report
}
