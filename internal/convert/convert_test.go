// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-search/pkg/types"
)

func TestHTMLConverter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paragraphs",
			in:   "<html><body><p>First   para.</p><p>Second\tpara.</p></body></html>",
			want: "First para.\nSecond para.",
		},
		{
			name: "skips script style and head",
			in: `<html><head><title>T</title><style>p{}</style></head>
<body><script>alert(1)</script><noscript>enable js</noscript><p>Visible</p></body></html>`,
			want: "Visible",
		},
		{
			name: "headings and lists",
			in:   "<h1>Title</h1><h2>Sub</h2><ul><li>one</li><li>two</li></ul>",
			want: "# Title\n## Sub\n- one\n- two",
		},
		{
			name: "inline elements stay on one line",
			in:   "<p>Go <a href=\"/x\">generics</a> are <b>here</b>.</p>",
			want: "Go generics are here.",
		},
		{
			name: "empty input",
			in:   "   ",
			want: "",
		},
		{
			name: "plain text",
			in:   "just text",
			want: "just text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTMLConverter{}.Convert(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// stubRuntime satisfies container.Runtime without a real container CLI.
type stubRuntime struct {
	imageErr error
	runErr   error
	output   string
	gotArgs  []string
	gotStdin string
}

func (s *stubRuntime) Name() string { return "stub" }
func (s *stubRuntime) Available(context.Context) bool { return true }
func (s *stubRuntime) ImageExists(context.Context, string) error { return s.imageErr }
func (s *stubRuntime) Run(_ context.Context, _ string, args []string, stdin io.Reader, stdout io.Writer) error {
	s.gotArgs = args
	data, _ := io.ReadAll(stdin)
	s.gotStdin = string(data)
	if s.runErr != nil {
		return s.runErr
	}
	_, err := io.WriteString(stdout, s.output)
	return err
}

func TestMarkitdownConverter(t *testing.T) {
	rt := &stubRuntime{output: "# Page\n\nBody"}
	c, err := NewMarkitdownConverter(context.Background(), rt)
	require.NoError(t, err)

	got, err := c.Convert(context.Background(), "<h1>Page</h1><p>Body</p>")
	require.NoError(t, err)
	assert.Equal(t, "# Page\n\nBody", got)
	assert.Equal(t, []string{"-x", "html"}, rt.gotArgs)
	assert.Equal(t, "<h1>Page</h1><p>Body</p>", rt.gotStdin)
}

func TestMarkitdownConverterErrors(t *testing.T) {
	_, err := NewMarkitdownConverter(context.Background(), &stubRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in stub")

	c, err := NewMarkitdownConverter(context.Background(), &stubRuntime{})
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), "<p>x</p>")
	assert.ErrorContains(t, err, "empty output")

	c, err = NewMarkitdownConverter(context.Background(), &stubRuntime{runErr: errors.New("exit status 1")})
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), "<p>x</p>")
	assert.ErrorContains(t, err, "converting with markitdown")
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, types.ConvertConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, HTMLConverter{}, c)

	_, err = New(ctx, types.ConvertConfig{Backend: types.ConvertMarkitdown}, nil)
	assert.ErrorContains(t, err, "requires a container runtime")

	c, err = New(ctx, types.ConvertConfig{Backend: types.ConvertMarkitdown}, &stubRuntime{})
	require.NoError(t, err)
	assert.IsType(t, &MarkitdownConverter{}, c)

	_, err = New(ctx, types.ConvertConfig{Backend: "pandoc"}, nil)
	assert.ErrorContains(t, err, "unknown convert backend")
}
