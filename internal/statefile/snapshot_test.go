package statefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type statusDoc struct {
	Online         bool `json:"online"`
	ActiveSessions int  `json:"active_sessions"`
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  *string
		wantErr  error
		wantDoc  *statusDoc
	}{
		{name: "missing", content: nil, wantErr: ErrNotFound},
		{name: "empty", content: ptr(""), wantErr: ErrMalformed},
		{name: "whitespace", content: ptr("  \n\t"), wantErr: ErrMalformed},
		{name: "null", content: ptr(" null\n"), wantErr: ErrMalformed},
		{name: "torn", content: ptr(`{"online": true, "active_ses`), wantErr: ErrMalformed},
		{name: "wrong shape", content: ptr(`[1, 2, 3]`), wantErr: ErrMalformed},
		{name: "valid", content: ptr(`{"online": true, "active_sessions": 3}`), wantDoc: &statusDoc{Online: true, ActiveSessions: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.content != nil {
				writeFile(t, root, "status.json", *tt.content)
			}
			r := NewReader(NewResolver(root))

			got, err := LoadAs[statusDoc](r, "status.json")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadAs() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("LoadAs() error = %v, want it to match ErrNotFound", err)
				}
				if got != nil {
					t.Errorf("LoadAs() = %+v, want nil on error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadAs() error = %v", err)
			}
			if *got != *tt.wantDoc {
				t.Errorf("LoadAs() = %+v, want %+v", *got, *tt.wantDoc)
			}
		})
	}
}

func TestLoadUnreadableIsReadError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	path := writeFile(t, root, "status.json", `{"online": true}`)
	if err := os.Chmod(path, 0); err != nil {
		t.Fatal(err)
	}

	r := NewReader(NewResolver(root))
	_, err := LoadAs[statusDoc](r, "status.json")

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("LoadAs() error = %v, want *ReadError", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("LoadAs() error = %v, must not match ErrNotFound", err)
	}
	if readErr.Path != filepath.Join(root, "status.json") {
		t.Errorf("ReadError.Path = %q, want %q", readErr.Path, path)
	}
}

func ptr(s string) *string { return &s }
