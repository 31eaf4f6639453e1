package pathutil_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/pathutil"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want pathutil.Path
	}{
		{
			name: "single key",
			raw:  "email",
			want: pathutil.Path{pathutil.KeySegment("email")},
		},
		{
			name: "dotted keys",
			raw:  "owner.email",
			want: pathutil.Path{pathutil.KeySegment("owner"), pathutil.KeySegment("email")},
		},
		{
			name: "bracketed index",
			raw:  "tags[2]",
			want: pathutil.Path{pathutil.KeySegment("tags"), pathutil.IndexSegment(2)},
		},
		{
			name: "mixed",
			raw:  "a.b[0].c",
			want: pathutil.Path{
				pathutil.KeySegment("a"),
				pathutil.KeySegment("b"),
				pathutil.IndexSegment(0),
				pathutil.KeySegment("c"),
			},
		},
		{
			name: "consecutive indices",
			raw:  "grid[1][3]",
			want: pathutil.Path{
				pathutil.KeySegment("grid"),
				pathutil.IndexSegment(1),
				pathutil.IndexSegment(3),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pathutil.Parse(tc.raw)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tc.raw, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("parsed path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"",
		".",
		".a",
		"a.",
		"a..b",
		"a.[0]",
		"a[0",
		"a]0[",
		"a[]",
		"a[-1]",
		"a[x]",
		"a[0]b",
	}

	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			_, err := pathutil.Parse(raw)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got none", raw)
			}
			var malformed *pathutil.MalformedPathError
			if !errors.As(err, &malformed) {
				t.Fatalf("Parse(%q) error type = %T, want *MalformedPathError", raw, err)
			}
		})
	}
}

func TestPathString(t *testing.T) {
	cases := []string{"email", "owner.email", "tags[2]", "a.b[0].c", "grid[1][3]"}
	for _, raw := range cases {
		path := pathutil.MustParse(raw)
		if got := path.String(); got != raw {
			t.Fatalf("String() = %q, want %q", got, raw)
		}
	}
}
