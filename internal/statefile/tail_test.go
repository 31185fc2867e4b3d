package statefile

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

type record struct {
	N int `json:"n"`
}

func jsonl(ns ...int) string {
	var b strings.Builder
	for _, n := range ns {
		fmt.Fprintf(&b, "{\"n\": %d}\n", n)
	}
	return b.String()
}

func seq(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func numbers(recs []record) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.N
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTail(t *testing.T) {
	tests := []struct {
		name    string
		content string
		limit   int
		want    []int
	}{
		{"fewer than limit", jsonl(1, 2, 3), 10, []int{1, 2, 3}},
		{"exactly limit", jsonl(1, 2, 3), 3, []int{1, 2, 3}},
		{"more than limit", jsonl(seq(1, 60)...), 50, seq(11, 60)},
		{"limit one", jsonl(1, 2, 3), 1, []int{3}},
		{"no trailing newline", strings.TrimSuffix(jsonl(1, 2), "\n"), 5, []int{1, 2}},
		{"blank lines not counted", "{\"n\": 1}\n\n   \n{\"n\": 2}\n\n", 2, []int{1, 2}},
		{"crlf", "{\"n\": 1}\r\n{\"n\": 2}\r\n", 5, []int{1, 2}},
		{"malformed dropped", "{\"n\": 1}\nnot json\n{\"n\": 3}\n", 5, []int{1, 3}},
		{"malformed counts toward window", "{\"n\": 1}\n{\"n\": 2}\n{bad\n{\"n\": 4}\n", 3, []int{2, 4}},
		{"torn final line", jsonl(1, 2) + `{"n": 3`, 5, []int{1, 2}},
		{"empty file", "", 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, "log.jsonl", tt.content)
			r := NewReader(NewResolver(root))

			got, err := Tail[record](r, "log.jsonl", tt.limit)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !equalInts(numbers(got), tt.want) {
				t.Errorf("Tail(%d) = %v, want %v", tt.limit, numbers(got), tt.want)
			}
		})
	}
}

func TestTailDropsEarlierRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "log.jsonl", jsonl(seq(1, 120)...))
	r := NewReader(NewResolver(root))

	got, err := Tail[record](r, "log.jsonl", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 100 {
		t.Fatalf("len(Tail()) = %d, want 100", len(got))
	}
	if got[0].N == 1 {
		t.Errorf("first retained record = %d, want a later record than the file's first", got[0].N)
	}
	if got[0].N != 21 || got[99].N != 120 {
		t.Errorf("Tail() spans %d..%d, want 21..120", got[0].N, got[99].N)
	}
}

func TestTailAcrossChunkBoundaries(t *testing.T) {
	old := tailChunkSize
	t.Cleanup(func() { tailChunkSize = old })

	content := jsonl(seq(1, 40)...) + "\n\n" + jsonl(seq(41, 45)...)
	for _, size := range []int{1, 3, 7, 11, 64} {
		t.Run(fmt.Sprintf("chunk=%d", size), func(t *testing.T) {
			tailChunkSize = size
			root := t.TempDir()
			writeFile(t, root, "log.jsonl", content)
			r := NewReader(NewResolver(root))

			got, err := Tail[record](r, "log.jsonl", 10)
			if err != nil {
				t.Fatal(err)
			}
			if want := seq(36, 45); !equalInts(numbers(got), want) {
				t.Errorf("Tail() = %v, want %v", numbers(got), want)
			}

			all, err := Tail[record](r, "log.jsonl", 1000)
			if err != nil {
				t.Fatal(err)
			}
			if want := seq(1, 45); !equalInts(numbers(all), want) {
				t.Errorf("Tail(1000) = %v, want %v", numbers(all), want)
			}
		})
	}
}

func TestTailMissingFile(t *testing.T) {
	r := NewReader(NewResolver(t.TempDir()))
	got, err := Tail[record](r, "subagent-log.jsonl", 50)
	if err != nil || len(got) != 0 {
		t.Errorf("Tail(missing) = %v, %v, want empty, nil", got, err)
	}
}

type shrinkingReader struct {
	data []byte
}

func (s shrinkingReader) ReadAt(p []byte, off int64) (int, error) {
	// Behaves as if the file was cut to half its reported size.
	half := int64(len(s.data) / 2)
	if off >= half {
		return 0, fmt.Errorf("read past end: %w", errEOF)
	}
	n := copy(p, s.data[off:half])
	if n < len(p) {
		return n, errEOF
	}
	return n, nil
}

func TestLastLinesTruncatedDuringRead(t *testing.T) {
	data := []byte(jsonl(seq(1, 20)...))
	_, err := lastLines(shrinkingReader{data: data}, int64(len(data)), 5)
	if err != errShrunk {
		t.Errorf("lastLines() on shrinking file error = %v, want errShrunk", err)
	}
}

var errEOF = io.EOF
