package catalog

import "testing"

func TestAbsoluteImageURL(t *testing.T) {
	const base = "http://api.example.com"

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "bare filename", ref: "foo.jpg", want: "http://api.example.com/uploads/foo.jpg"},
		{name: "leading slash", ref: "/foo.jpg", want: "http://api.example.com/uploads/foo.jpg"},
		{name: "already prefixed", ref: "uploads/foo.jpg", want: "http://api.example.com/uploads/foo.jpg"},
		{name: "prefixed with slash", ref: "/uploads/foo.jpg", want: "http://api.example.com/uploads/foo.jpg"},
		{name: "absolute http passes through", ref: "http://cdn.example.com/foo.jpg", want: "http://cdn.example.com/foo.jpg"},
		{name: "absolute https passes through", ref: "https://cdn.example.com/foo.jpg", want: "https://cdn.example.com/foo.jpg"},
		{name: "empty stays empty", ref: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AbsoluteImageURL(base, tt.ref); got != tt.want {
				t.Fatalf("AbsoluteImageURL(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestNormalizeProductDefaultsImagesToEmptySlice(t *testing.T) {
	svc := &Service{uploadsURL: "http://api.example.com"}
	p := Product{ImagePath: "foo.jpg"}

	svc.normalizeProduct(&p)

	if p.Images == nil {
		t.Fatalf("images must never be nil after normalization")
	}
	if len(p.Images) != 0 {
		t.Fatalf("expected empty images, got %v", p.Images)
	}
	if p.ImagePath != "http://api.example.com/uploads/foo.jpg" {
		t.Fatalf("unexpected image path %q", p.ImagePath)
	}
}
