package mpris

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCoverArt(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		dirs  []string
		want  string
	}{
		{name: "cover before front", files: []string{"front.jpg", "cover.png"}, want: "cover.png"},
		{name: "case insensitive", files: []string{"Folder.JPG"}, want: "Folder.JPG"},
		{name: "directories ignored", dirs: []string{"cover.jpg"}, want: ""},
		{name: "no image", files: []string{"track.mp3", "notes.txt"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("img"), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			for _, d := range tt.dirs {
				if err := os.Mkdir(filepath.Join(dir, d), 0o700); err != nil {
					t.Fatal(err)
				}
			}

			want := tt.want
			if want != "" {
				want = filepath.Join(dir, want)
			}
			if got := CoverArt(filepath.Join(dir, "track.mp3")); got != want {
				t.Errorf("CoverArt() = %q, want %q", got, want)
			}
		})
	}
}

func TestCoverArt_NoPath(t *testing.T) {
	for _, p := range []string{"", "/no/such/dir/a.mp3"} {
		if got := CoverArt(p); got != "" {
			t.Errorf("CoverArt(%q) = %q, want empty", p, got)
		}
	}
}
