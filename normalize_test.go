package wardrobedup

import "testing"

func TestNormalizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "extension dropped",
			in:   "redVelvetBlazer.jpg",
			want: "redvelvetblazer",
		},
		{
			name: "uuid removed",
			in:   "blazer_550e8400-e29b-41d4-a716-446655440000.png",
			want: "blazer",
		},
		{
			name: "uppercase uuid removed",
			in:   "550E8400-E29B-41D4-A716-446655440000_coat.png",
			want: "coat",
		},
		{
			name: "timestamp run removed",
			in:   "IMG_1699999999999.jpg",
			want: "img",
		},
		{
			name: "timestamp same as plain name",
			in:   "IMG.jpg",
			want: "img",
		},
		{
			name: "camera roll name collapses",
			in:   "IMG_20230101_120000.jpg",
			want: "img",
		},
		{
			name: "separators stripped",
			in:   "navy-bomber_jacket .png",
			want: "navybomberjacket",
		},
		{
			name: "twelve digits kept",
			in:   "lot123456789012.jpg",
			want: "lot123456789012",
		},
		{
			name: "split digit run still caught",
			in:   "1234567-890123x.jpg",
			want: "x",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "dotted name",
			in:   "my.favorite.dress.jpg",
			want: "myfavoritedress",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeFilename(tc.in); got != tc.want {
				t.Errorf("NormalizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeFilename_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"redVelvetBlazer.jpg",
		"IMG_20230101_120000.jpg",
		"my.favorite.dress.jpg",
		"1234567-890123x.jpg",
		"blazer_550e8400-e29b-41d4-a716-446655440000.png",
		"",
		"photo",
		"  Spaced Out Name  .png",
	}
	for _, in := range inputs {
		once := NormalizeFilename(in)
		twice := NormalizeFilename(once)
		if once != twice {
			t.Errorf("NormalizeFilename not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestIsMeaningfulName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{NormalizeFilename("photo"), false},
		{NormalizeFilename("redVelvetBlazer"), true},
		{"img", false},
		{"abc", false},
		{"", false},
		{"screenshot", false},
		{"download", false},
		{"navybomberjacket", true},
	}
	for _, tc := range tests {
		if got := IsMeaningfulName(tc.in); got != tc.want {
			t.Errorf("IsMeaningfulName(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeURLName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "query string stripped",
			in:   "https://cdn.example.com/closet/navybomberjacket.png?w=640&fit=crop",
			want: "navybomberjacket",
		},
		{
			name: "fragment stripped",
			in:   "https://cdn.example.com/closet/silk-scarf.jpg#preview",
			want: "silkscarf",
		},
		{
			name: "percent decoding",
			in:   "https://cdn.example.com/closet/winter%20parka.jpg",
			want: "winterparka",
		},
		{
			name: "no path segments",
			in:   "linen-shirt.webp",
			want: "linenshirt",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeURLName(tc.in); got != tc.want {
				t.Errorf("NormalizeURLName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
