package report

import "testing"

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "host and path",
			url:  "https://example.com/blog/post",
			want: "seo_report_example.com_blog_post.csv",
		},
		{
			name: "trailing slash trimmed",
			url:  "https://example.com/",
			want: "seo_report_example.com.csv",
		},
		{
			name: "query ignored",
			url:  "https://example.com/page?a=1&b=2",
			want: "seo_report_example.com_page.csv",
		},
		{
			name: "different hosts never collide",
			url:  "https://other.net/blog/post",
			want: "seo_report_other.net_blog_post.csv",
		},
		{
			name: "unparseable input sanitized as-is",
			url:  "not a url",
			want: "seo_report_not_a_url.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FileName(tt.url); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		if FileName("https://example.com/x") != FileName("https://example.com/x") {
			t.Error("expected identical names for identical URLs")
		}
	})
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName("seo_report_example.com_blog.csv"); got != "example.com_blog" {
		t.Errorf("unexpected display name: %q", got)
	}
}

func TestIsReportFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fileName string
		want     bool
	}{
		{"seo_report_example.com.csv", true},
		{"seo_report_.csv", false},
		{"notes.csv", false},
		{"seo_report_example.com.txt", false},
	}

	for _, tt := range tests {
		if got := IsReportFile(tt.fileName); got != tt.want {
			t.Errorf("IsReportFile(%q) = %v, want %v", tt.fileName, got, tt.want)
		}
	}
}
