package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teamspend/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		wantText    string
		wantCharset encoding.Charset
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte("description;amount\nCafé crème;12.50\n"),
			wantText:    "description;amount\nCafé crème;12.50\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, "date,amount\n"...),
			wantText:    "date,amount\n",
			wantCharset: encoding.UTF8BOM,
		},
		{
			// "Descrição;Montante\n" in Windows-1252: ç = 0xE7, ã = 0xE3.
			name: "Latin1",
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';',
				'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n',
			},
			wantText: "Descrição;Montante\n",
		},
		{
			name:        "UTF16LE",
			input:       []byte{0xFF, 0xFE, 'o', 0x00, 'k', 0x00},
			wantText:    "ok",
			wantCharset: encoding.UTF16LE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, cs, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, cs)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, string(got))
		})
	}
}

func TestDetect_RuneSplitAtSampleEdge(t *testing.T) {
	sample := []byte(strings.Repeat("a", 10) + "é")
	cut := sample[:len(sample)-1]

	assert.Equal(t, encoding.UTF8, encoding.Detect(cut, true))
}
