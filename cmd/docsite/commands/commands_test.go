package commands

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/loader"
)

type site struct {
	root    *CLI
	global  *Global
	out     *bytes.Buffer
	content string
	output  string
}

func newSite(t *testing.T) *site {
	t.Helper()
	t.Setenv(config.EnvBaseURL, "")
	dir := t.TempDir()
	s := &site{
		out:     &bytes.Buffer{},
		content: filepath.Join(dir, "content"),
		output:  filepath.Join(dir, "dist"),
	}
	s.global = &Global{Context: context.Background(), Stdout: s.out}
	s.root = &CLI{Config: filepath.Join(dir, config.DefaultPath)}

	cfg := "site:\n" +
		"  title: Example\n" +
		"  base_url: https://example.com\n" +
		"content:\n  directory: " + s.content + "\n" +
		"output:\n  directory: " + s.output + "\n"
	require.NoError(t, os.WriteFile(s.root.Config, []byte(cfg), 0o600))

	s.write(t, "blog/first.md", "---\ntitle: First\ndate: 2026-01-29\ntags: [news]\n---\nHello\n")
	s.write(t, "blog/second.md", "---\ntitle: Second\ndate: 2026-02-08\n---\nWorld\n")
	s.write(t, "docs/intro.md", "---\ntitle: Intro\n---\nDocs\n")
	return s
}

func (s *site) write(t *testing.T, rel, body string) {
	t.Helper()
	path := filepath.Join(s.content, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestBuildCmd(t *testing.T) {
	s := newSite(t)
	s.root.MetricsTextfile = filepath.Join(t.TempDir(), "docsite.prom")

	require.NoError(t, (&BuildCmd{}).Run(s.global, s.root))

	assert.FileExists(t, filepath.Join(s.output, "rss.xml"))
	assert.FileExists(t, filepath.Join(s.output, "content-manifest.json"))
	assert.Contains(t, s.out.String(), "(2 items)")

	prom, err := os.ReadFile(s.root.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "docsite_feed_items 2")
}

func TestBuildCmd_OutputOverride(t *testing.T) {
	s := newSite(t)
	out := filepath.Join(t.TempDir(), "public")

	require.NoError(t, (&BuildCmd{Output: out}).Run(s.global, s.root))
	assert.FileExists(t, filepath.Join(out, "rss.xml"))
	assert.NoDirExists(t, s.output)
}

func TestValidateCmd(t *testing.T) {
	s := newSite(t)

	require.NoError(t, (&ValidateCmd{}).Run(s.global, s.root))
	assert.Contains(t, s.out.String(), "blog   2 entries")
	assert.Contains(t, s.out.String(), "docs   1 entries")
	assert.NoDirExists(t, s.output)
}

func TestValidateCmd_InvalidEntry(t *testing.T) {
	s := newSite(t)
	s.write(t, "blog/broken.md", "---\ndate: not-a-date\n---\n")

	err := (&ValidateCmd{}).Run(s.global, s.root)
	require.Error(t, err)

	var entryErr *loader.EntryError
	require.ErrorAs(t, err, &entryErr)
	adapter := derrors.NewCLIErrorAdapter(false, nil)
	assert.Equal(t, 2, adapter.ExitCodeFor(err))
	msg := adapter.FormatError(err)
	assert.Contains(t, msg, `missing required field "title"`)
	assert.Contains(t, msg, `invalid field "date"`)
}

func TestFeedCmd(t *testing.T) {
	s := newSite(t)

	require.NoError(t, (&FeedCmd{Limit: -1, Tag: "news"}).Run(s.global, s.root))

	var doc struct {
		Items []struct {
			Title string `xml:"title"`
			Link  string `xml:"link"`
		} `xml:"channel>item"`
	}
	require.NoError(t, xml.Unmarshal(s.out.Bytes(), &doc))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "First", doc.Items[0].Title)
	assert.Equal(t, "https://example.com/blog/first/", doc.Items[0].Link)
}

func TestFeedCmd_UnknownCollection(t *testing.T) {
	s := newSite(t)

	err := (&FeedCmd{Limit: -1, Collection: "news"}).Run(s.global, s.root)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
}

func TestLoadConfig_MissingFileIsConfigError(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")}

	err := (&BuildCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.Equal(t, 7, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInitCmd(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	out := &bytes.Buffer{}
	root := &CLI{Config: filepath.Join(t.TempDir(), config.DefaultPath)}

	require.NoError(t, (&InitCmd{}).Run(&Global{Stdout: out}, root))
	assert.Contains(t, out.String(), "initialized successfully")

	err := (&InitCmd{}).Run(&Global{Stdout: out}, root)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestCLIParsing(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"-c", "site.yaml", "feed", "--tag", "release", "--limit", "5"})
	require.NoError(t, err)
	assert.Equal(t, "feed", kctx.Command())
	assert.Equal(t, "site.yaml", cli.Config)
	assert.Equal(t, "release", cli.Feed.Tag)
	assert.Equal(t, 5, cli.Feed.Limit)

	var defaults CLI
	parser, err = kong.New(&defaults, kong.Vars{"version": "test"})
	require.NoError(t, err)
	kctx, err = parser.Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, "build", kctx.Command())
	assert.Equal(t, config.DefaultPath, defaults.Config)
}
