package api

import "testing"

func TestCloudinaryThumb(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{
			name:  "cloudinary upload",
			in:    "https://res.cloudinary.com/club/image/upload/v1700000000/paintings/harbor.jpg",
			width: 900,
			want:  "https://res.cloudinary.com/club/image/upload/f_auto,q_auto,w_900,c_fit/v1700000000/paintings/harbor.jpg",
		},
		{
			name:  "other host",
			in:    "https://img.example.com/upload/harbor.jpg",
			width: 900,
			want:  "https://img.example.com/upload/harbor.jpg",
		},
		{
			name:  "no upload segment",
			in:    "https://res.cloudinary.com/club/image/fetch/harbor.jpg",
			width: 800,
			want:  "https://res.cloudinary.com/club/image/fetch/harbor.jpg",
		},
		{
			name:  "not a url",
			in:    "::",
			width: 800,
			want:  "::",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CloudinaryThumb(tt.in, tt.width); got != tt.want {
				t.Errorf("CloudinaryThumb() = %q, want %q", got, tt.want)
			}
		})
	}
}
