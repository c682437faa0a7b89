package mcpserver

// RecordFormatContract describes the Markdown form records are exported in
// and that create_record accepts through its markdown argument.
const RecordFormatContract = `# EdgeLog Record Format

Records are exported by read_record as Markdown with YAML frontmatter.
create_record accepts the same shape in its ` + "`markdown`" + ` argument.

## Structure

` + "```" + `markdown
---
title: LONG EURUSD SETUP      # REQUIRED unless the body starts with a "# " heading
bias: Bullish                 # OPTIONAL: Bullish | Bearish
quality: Good                 # OPTIONAL: Good | Bad
folder_id: f_default_1        # OPTIONAL: id from list_folders
---

# LONG EURUSD SETUP

Free-form analysis text.
` + "```" + `

## Rules

1. Titles are upper-cased on creation. A blank title is rejected.
2. The symbol grouping takes the first six-letter upper-case word of the
   title (EURUSD), otherwise the first run of 3 to 6 capitals, otherwise
   "General". Put the instrument in the title.
3. The date is assigned by the archive. Fields ` + "`id`, `date`, `symbol`, `folder`, `images`, `audio`" + `
   in exported frontmatter are informational and ignored on input.
4. Records cannot be edited after creation, only moved between folders
   (move_record, manual taxonomy only) or deleted.
5. Images are passed separately in ` + "`image_urls`" + ` as data URIs or http(s)
   URLs (png, jpeg, gif, webp; 10 MB max each).

## Browsing

browse takes a taxonomy (` + "`custom`, `pair`, `date`" + `) and a path:
- custom: a folder id or ` + "`uncategorized`" + `
- pair: a symbol
- date: ` + "`2024`, `2024/03`, `2024/03/15`" + ` (UTC)
`
