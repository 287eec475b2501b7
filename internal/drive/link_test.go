package drive

import "testing"

func TestResolveLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{
			name: "folderURL",
			link: "https://drive.google.com/drive/folders/ABC123?usp=sharing",
			want: "ABC123",
		},
		{
			name: "folderURLWithUserSegment",
			link: "https://drive.google.com/drive/u/0/folders/1aBcD_eFgH-iJkL",
			want: "1aBcD_eFgH-iJkL",
		},
		{
			name: "fileURL",
			link: "https://drive.google.com/file/d/XYZ789/view",
			want: "XYZ789",
		},
		{
			name: "openWithIDQuery",
			link: "https://drive.google.com/open?id=ABC123DEF456GHI789JKL",
			want: "ABC123DEF456GHI789JKL",
		},
		{
			name: "bareID",
			link: "ABC123DEF456GHI789JKL",
			want: "ABC123DEF456GHI789JKL",
		},
		{
			name: "shortBareIDRejected",
			link: "ABC123",
			want: "",
		},
		{
			name: "junk",
			link: "not a link",
			want: "",
		},
		{
			name: "empty",
			link: "",
			want: "",
		},
		{
			name: "whitespaceOnly",
			link: "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLink(tt.link); got != tt.want {
				t.Errorf("ResolveLink(%q) = %q, want %q", tt.link, got, tt.want)
			}
		})
	}
}
