package delta

import (
	"bytes"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/Kunde21/markdownfmt/v3/markdown"
	"github.com/yuin/goldmark"
)

// changelogTemplate renders a Delta into Markdown per spec §4.8: a title,
// timestamp range, then one section per Added/Removed/Modified. Added and
// Removed are tables of keys; Modified has one heading per record followed
// by a per-field bullet list, not a table. Built with text/template rather
// than Sprintf (as policygen.go does for its flatter Rego snippets) because
// this structure genuinely nests — section, record, then a bullet list.
const changelogTemplate = `# Inventory Changelog

**Before:** {{.BeforeID}} ({{.BeforeTime}})
**After:** {{.AfterID}} ({{.AfterTime}})

## Added ({{len .Added}})

| Key |
|---|
{{range .Added}}| {{.}} |
{{end}}
## Removed ({{len .Removed}})

| Key |
|---|
{{range .Removed}}| {{.}} |
{{end}}
## Modified ({{len .Modified}})

{{range .Modified}}### {{.Key}}

{{range .Changes}}- **{{.Field}}**: {{.Old}} -> {{.New}}
{{end}}
{{end}}
Unchanged: {{.UnchangedCount}}
`

type changelogView struct {
	BeforeID       string
	AfterID        string
	BeforeTime     string
	AfterTime      string
	Added          []string
	Removed        []string
	Modified       []Modified
	UnchangedCount int
}

// Render produces the Markdown changelog for d. beforeTime/afterTime label
// the timestamp range (spec §4.8); pass the zero time.Time when a snapshot
// lacks one. Render is purely deterministic and performs no I/O beyond
// returning bytes for the caller to write.
func Render(d Delta, beforeTime, afterTime time.Time) (string, error) {
	added := append([]string(nil), d.Added...)
	removed := append([]string(nil), d.Removed...)
	sort.Strings(added)
	sort.Strings(removed)

	view := changelogView{
		BeforeID:       d.SnapshotIDBefore,
		AfterID:        d.SnapshotIDAfter,
		BeforeTime:     beforeTime.UTC().Format(time.RFC3339),
		AfterTime:      afterTime.UTC().Format(time.RFC3339),
		Added:          added,
		Removed:        removed,
		Modified:       d.Modified,
		UnchangedCount: d.UnchangedCount,
	}

	tmpl, err := template.New("changelog").Parse(changelogTemplate)
	if err != nil {
		return "", err
	}
	var raw bytes.Buffer
	if err := tmpl.Execute(&raw, view); err != nil {
		return "", err
	}

	return normalize(raw.String())
}

// normalize passes rendered Markdown through the goldmark parser configured
// with markdownfmt's renderer, producing a canonical formatting (stable
// spacing, table alignment) independent of the template's own whitespace
// choices.
func normalize(raw string) (string, error) {
	md := goldmark.New(goldmark.WithRenderer(markdown.NewRenderer()))
	var out bytes.Buffer
	if err := md.Convert([]byte(raw), &out); err != nil {
		return "", err
	}
	return strings.TrimRight(out.String(), "\n") + "\n", nil
}
