package channeltalk

import "testing"

func TestFlattenBlocks(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		want   string
	}{
		{
			name:   "single text",
			blocks: []Block{{Type: "text", Value: "hello"}},
			want:   "hello",
		},
		{
			name: "text and code",
			blocks: []Block{
				{Type: "text", Value: "look:"},
				{Type: "code", Value: "x := 1", Language: "go"},
			},
			want: "look:\nx := 1",
		},
		{
			name: "bullets",
			blocks: []Block{
				{Type: "bullets", Blocks: []Block{
					{Type: "text", Value: "one"},
					{Type: "text", Value: "two"},
				}},
			},
			want: "• one\n• two",
		},
		{
			name:   "unknown type with value",
			blocks: []Block{{Type: "mystery", Value: "kept"}},
			want:   "kept",
		},
		{
			name:   "empty",
			blocks: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenBlocks(tt.blocks); got != tt.want {
				t.Errorf("FlattenBlocks() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextToBlocks(t *testing.T) {
	t.Run("plain text is a single block", func(t *testing.T) {
		text := "line one\nline two"
		blocks := TextToBlocks(text)
		if len(blocks) != 1 {
			t.Fatalf("got %d blocks, want 1", len(blocks))
		}
		if blocks[0].Type != "text" || blocks[0].Value != text {
			t.Errorf("got %+v, want text block with original string", blocks[0])
		}
	})

	t.Run("fenced code becomes a code block", func(t *testing.T) {
		blocks := TextToBlocks("before\n```go\nx := 1\n```\nafter")
		if len(blocks) != 3 {
			t.Fatalf("got %d blocks, want 3: %+v", len(blocks), blocks)
		}
		if blocks[0].Type != "text" || blocks[0].Value != "before" {
			t.Errorf("first block = %+v", blocks[0])
		}
		if blocks[1].Type != "code" || blocks[1].Language != "go" || blocks[1].Value != "x := 1" {
			t.Errorf("code block = %+v", blocks[1])
		}
		if blocks[2].Type != "text" || blocks[2].Value != "after" {
			t.Errorf("last block = %+v", blocks[2])
		}
	})

	t.Run("fence without language", func(t *testing.T) {
		blocks := TextToBlocks("```\nraw\n```")
		if len(blocks) != 1 {
			t.Fatalf("got %d blocks, want 1: %+v", len(blocks), blocks)
		}
		if blocks[0].Type != "code" || blocks[0].Language != "" || blocks[0].Value != "raw" {
			t.Errorf("code block = %+v", blocks[0])
		}
	})
}

// A message composed of blocks must flatten to the same text whether it
// arrived as plainText or as a block list built from that text.
func TestBlocksRoundTrip(t *testing.T) {
	texts := []string{
		"hello world",
		"multi\nline\ntext",
	}
	for _, text := range texts {
		got := FlattenBlocks(TextToBlocks(text))
		if got != text {
			t.Errorf("round trip of %q = %q", text, got)
		}
	}
}
