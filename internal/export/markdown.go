// Package export renders records as Markdown with YAML frontmatter and reads
// such documents back.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/edgelog/internal/grouping"
	"github.com/starford/edgelog/internal/models"
)

const delim = "---"

// Meta is the frontmatter of an exported record.
type Meta struct {
	ID       string `yaml:"id,omitempty"`
	Title    string `yaml:"title"`
	Date     string `yaml:"date,omitempty"`
	Symbol   string `yaml:"symbol,omitempty"`
	Bias     string `yaml:"bias,omitempty"`
	Quality  string `yaml:"quality,omitempty"`
	FolderID string `yaml:"folder_id,omitempty"`
	Folder   string `yaml:"folder,omitempty"`
	Images   int    `yaml:"images,omitempty"`
	Audio    bool   `yaml:"audio,omitempty"`
}

// Document is a parsed Markdown record.
type Document struct {
	Meta Meta
	Body string
}

// Render writes r as Markdown. folder is the display name of the record's
// folder, empty when uncategorized. Attachments are linked, not inlined.
func Render(r models.Record, folder string) ([]byte, error) {
	meta := Meta{
		ID:       r.ID,
		Title:    r.Title,
		Date:     r.Date,
		Symbol:   grouping.SymbolKey(r.Title),
		Bias:     string(r.Bias),
		Quality:  string(r.Quality),
		FolderID: r.CustomFolderID,
		Folder:   folder,
		Images:   len(r.Images),
		Audio:    r.Audio != "",
	}
	fm, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("export: marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	buf.Write(fm)
	buf.WriteString(delim + "\n\n")
	buf.WriteString("# " + r.Title + "\n")
	if r.Text != "" {
		buf.WriteString("\n" + strings.TrimRight(r.Text, "\n") + "\n")
	}
	for i := range r.Images {
		fmt.Fprintf(&buf, "\n![image %d](/api/records/%s/images/%d)\n", i+1, r.ID, i)
	}
	if r.Audio != "" {
		fmt.Fprintf(&buf, "\n[audio](/api/records/%s/audio)\n", r.ID)
	}
	return buf.Bytes(), nil
}

// Parse splits data into frontmatter and body. Without frontmatter, or with
// invalid YAML, the whole input is body. A missing title falls back to the
// first H1 heading, which is then dropped from the body.
func Parse(data []byte) Document {
	meta, body, ok := splitFrontmatter(data)
	if !ok {
		body = string(data)
	}
	if meta.Title == "" {
		meta.Title, body = takeHeading(body)
	} else if h, rest := takeHeading(body); h == meta.Title {
		body = rest
	}
	return Document{Meta: meta, Body: strings.TrimSpace(body)}
}

func splitFrontmatter(data []byte) (Meta, string, bool) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return Meta{}, "", false
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return Meta{}, "", false
	}

	var meta Meta
	if err := yaml.Unmarshal(rest[:idx], &meta); err != nil {
		return Meta{}, "", false
	}
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")
	return meta, body, true
}

// takeHeading returns the first "# " heading and body without that line.
func takeHeading(body string) (string, string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			rest := append(lines[:i:i], lines[i+1:]...)
			return strings.TrimSpace(trimmed[2:]), strings.Join(rest, "\n")
		}
	}
	return "", body
}
