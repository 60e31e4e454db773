package resampler

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// chunkedReader returns at most chunkSize bytes per Read.
type chunkedReader struct {
	data      []byte
	chunkSize int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p[:min(len(p), r.chunkSize)], r.data)
	r.data = r.data[n:]
	if len(r.data) == 0 {
		return n, io.EOF
	}
	return n, nil
}

func readAllFrames(r io.Reader, bufSize int) ([][]byte, error) {
	var reads [][]byte
	buf := make([]byte, bufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			reads = append(reads, bytes.Clone(buf[:n]))
		}
		if err != nil {
			if err == io.EOF {
				return reads, nil
			}
			return reads, err
		}
	}
}

func TestFrameReader(t *testing.T) {
	tests := []struct {
		name      string
		src       io.Reader
		frameSize int
		bufSize   int
		want      [][]byte
		wantErr   error
	}{
		{
			name:      "exact multiple",
			src:       bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}),
			frameSize: 4, bufSize: 8,
			want: [][]byte{{1, 2, 3, 4, 5, 6, 7, 8}},
		},
		{
			name:      "buffer truncated to frames",
			src:       bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}),
			frameSize: 4, bufSize: 6,
			want: [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
		},
		{
			name:      "partial frame carried over",
			src:       &chunkedReader{data: []byte{1, 2, 3, 4, 5, 6, 7, 8}, chunkSize: 5},
			frameSize: 4, bufSize: 8,
			want: [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
		},
		{
			name:      "mono frames",
			src:       bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}),
			frameSize: 2, bufSize: 6,
			want: [][]byte{{1, 2, 3, 4, 5, 6}},
		},
		{
			name:      "truncated input",
			src:       bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}),
			frameSize: 4, bufSize: 8,
			want:    [][]byte{{1, 2, 3, 4}, {5, 6}},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:      "empty",
			src:       bytes.NewReader(nil),
			frameSize: 4, bufSize: 8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readAllFrames(newFrameReader(tt.src, tt.frameSize), tt.bufSize)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("reads mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFrameReaderShortBuffer(t *testing.T) {
	r := newFrameReader(bytes.NewReader([]byte{1, 2, 3, 4}), 4)
	if _, err := r.Read(make([]byte, 2)); err != io.ErrShortBuffer {
		t.Fatalf("Read error = %v, want io.ErrShortBuffer", err)
	}
}
