// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes EdgeLog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/edgelog/internal/archive"
	"github.com/starford/edgelog/internal/export"
	"github.com/starford/edgelog/internal/models"
)

const contractURI = "edgelog://record-format"

// Server wraps the MCP server with EdgeLog tools.
type Server struct {
	mcp *server.MCPServer
	svc *archive.Service
}

// New creates a new MCP server with all EdgeLog tools registered.
func New(svc *archive.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"EdgeLog",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Case-insensitive search through record titles and bodies. Returns id, date and title of each match, newest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read a record as Markdown with YAML frontmatter."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("create_record",
		mcp.WithDescription("Archive a new trading analysis. Pass either title/text fields or a markdown "+
			"document following the record format contract (get_record_contract)."),
		mcp.WithString("title", mcp.Description("Title, usually naming the instrument (e.g. LONG EURUSD SETUP)")),
		mcp.WithString("text", mcp.Description("Analysis body")),
		mcp.WithString("bias", mcp.Enum(string(models.BiasBullish), string(models.BiasBearish))),
		mcp.WithString("quality", mcp.Enum(string(models.QualityGood), string(models.QualityBad))),
		mcp.WithString("folder_id", mcp.Description("Folder id from list_folders")),
		mcp.WithString("markdown", mcp.Description("Whole record as Markdown; overrides title and text")),
		mcp.WithArray("image_urls",
			mcp.Description("Chart screenshots as data URIs or http(s) URLs"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.createRecord)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the record format contract. Call this before creating records from Markdown."),
	), s.getRecordContract)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List manual folders with their ids."),
	), s.listFolders)

	s.mcp.AddTool(mcp.NewTool("create_folder",
		mcp.WithDescription("Create a manual folder."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Folder name")),
	), s.createFolder)

	s.mcp.AddTool(mcp.NewTool("move_record",
		mcp.WithDescription("Move a record to a folder, or to 'uncategorized'. Only available while the archive is grouped by folder."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
		mcp.WithString("folder_id", mcp.Required(), mcp.Description("Target folder id or 'uncategorized'")),
	), s.moveRecord)

	s.mcp.AddTool(mcp.NewTool("browse",
		mcp.WithDescription("Group the archive by a taxonomy and list buckets and entries at a path."),
		mcp.WithString("taxonomy", mcp.Required(), mcp.Enum(
			string(models.TaxonomyManual), string(models.TaxonomySymbol), string(models.TaxonomyDate))),
		mcp.WithString("path", mcp.Description("Slash separated path, e.g. 2024/03 for the date taxonomy")),
		mcp.WithString("query", mcp.Description("Search term applied to the entries at the path")),
	), s.browse)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Record Format Contract",
			mcp.WithResourceDescription("Markdown form of an archived record."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type recordSummary struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	FolderID string `json:"folderId,omitempty"`
}

func summarize(recs []models.Record) []recordSummary {
	out := make([]recordSummary, len(recs))
	for i, r := range recs {
		out[i] = recordSummary{ID: r.ID, Date: r.Date, Title: r.Title, FolderID: r.CustomFolderID}
	}
	return out
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) searchRecords(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(summarize(s.svc.Records(query))), nil
}

func (s *Server) readRecord(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.GetRecord(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, err := export.Render(rec, s.svc.FolderName(rec.CustomFolderID))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d := archive.Draft{
		Title:    req.GetString("title", ""),
		Text:     req.GetString("text", ""),
		Bias:     models.Bias(req.GetString("bias", "")),
		Quality:  models.Quality(req.GetString("quality", "")),
		FolderID: req.GetString("folder_id", ""),
	}
	if md := req.GetString("markdown", ""); md != "" {
		doc := export.Parse([]byte(md))
		d.Title, d.Text = doc.Meta.Title, doc.Body
		if doc.Meta.Bias != "" {
			d.Bias = models.Bias(doc.Meta.Bias)
		}
		if doc.Meta.Quality != "" {
			d.Quality = models.Quality(doc.Meta.Quality)
		}
		if doc.Meta.FolderID != "" {
			d.FolderID = doc.Meta.FolderID
		}
	}

	for _, raw := range req.GetStringSlice("image_urls", nil) {
		uri, err := resolveImage(ctx, raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		d.Images = append(d.Images, uri)
	}

	rec, err := s.svc.CreateRecord(d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s %s", rec.ID, rec.Title)), nil
}

func (s *Server) getRecordContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}

func (s *Server) listFolders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Folders()), nil
}

func (s *Server) createFolder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, ok, err := s.svc.CreateFolder(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("folder name is blank"), nil
	}
	return jsonResult(f), nil
}

func (s *Server) moveRecord(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("folder_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.MoveRecord(id, target); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("moved: %s -> %s", id, target)), nil
}

type browseResult struct {
	Taxonomy models.Taxonomy         `json:"taxonomy"`
	Path     string                  `json:"path"`
	Buckets  []archive.BucketSummary `json:"buckets,omitempty"`
	Entries  []recordSummary         `json:"entries"`
}

func (s *Server) browse(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("taxonomy")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := models.ParseTaxonomy(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var path []string
	if p := strings.Trim(req.GetString("path", ""), "/"); p != "" {
		path = strings.Split(p, "/")
	}
	v, err := s.svc.Browse(t, path, req.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(browseResult{
		Taxonomy: v.Taxonomy,
		Path:     strings.Join(v.Path, "/"),
		Buckets:  v.Buckets,
		Entries:  summarize(v.Entries),
	}), nil
}
