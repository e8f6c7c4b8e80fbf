package fileadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     Format
	}{
		{
			name:     "csv extension wins regardless of content",
			filename: "conversation.csv",
			data:     `{"messages": []}`,
			want:     FormatCSV,
		},
		{
			name:     "jsonl extension maps to ndjson",
			filename: "history.jsonl",
			data:     `{"role":"user"}`,
			want:     FormatNDJSON,
		},
		{
			name:     "json extension",
			filename: "export.json",
			data:     `a,b,c`,
			want:     FormatJSON,
		},
		{
			name:     "sniffed csv with commas and newlines",
			filename: "dump",
			data:     "role,content\nuser,hello\nassistant,hi",
			want:     FormatCSV,
		},
		{
			name:     "leading brace is never csv",
			filename: "dump",
			data:     "{\"a\": 1,\n\"b\": 2}",
			want:     FormatJSON,
		},
		{
			name:     "multiple json lines sniff as ndjson",
			filename: "dump",
			data:     "{\"role\":\"user\"}\n{\"role\":\"assistant\"}",
			want:     FormatNDJSON,
		},
		{
			name:     "single object defaults to json",
			filename: "dump",
			data:     `{"messages":[]}`,
			want:     FormatJSON,
		},
		{
			name:     "empty buffer defaults to json",
			filename: "",
			data:     "",
			want:     FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename, []byte(tt.data)))
		})
	}
}

func TestDetectFormatSniffsOnlyHead(t *testing.T) {
	// Commas appear only after the sniff window; the head alone decides.
	head := make([]byte, sniffLimit)
	for i := range head {
		head[i] = 'x'
	}
	data := append(head, []byte("\na,b,c\nd,e,f")...)
	assert.Equal(t, FormatJSON, DetectFormat("dump", data))
}
