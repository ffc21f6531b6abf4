// Command partita is the CLI for the Partita score toolkit. It imports
// and exports CanorusML scores, packs score bundles, renders MIDI,
// maintains the score catalog and serves the REST API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/tactus/partita/core/bundle"
	"github.com/tactus/partita/core/canorusml"
	"github.com/tactus/partita/core/catalog"
	"github.com/tactus/partita/core/chord"
	"github.com/tactus/partita/core/midi"
	"github.com/tactus/partita/core/resource"
	"github.com/tactus/partita/core/score"
	"github.com/tactus/partita/core/sqlite"
	"github.com/tactus/partita/core/xml"
	"github.com/tactus/partita/internal/api"
	"github.com/tactus/partita/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for partita.
var CLI struct {
	// Global flags
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
	LogText  bool   `name:"log-text" help:"Log in text format instead of JSON"`

	// Command groups (noun-first organization)
	Score   ScoreGroup   `cmd:"" help:"Score operations (convert, validate, query, inspect)"`
	Bundle  BundleGroup  `cmd:"" help:"Score bundle operations (pack, unpack, info)"`
	Catalog CatalogGroup `cmd:"" help:"Score catalog operations"`
	Chord   ChordCmd     `cmd:"" help:"Parse a chord symbol"`
	Serve   ServeCmd     `cmd:"" help:"Start REST API server"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// ScoreGroup contains score file operations.
type ScoreGroup struct {
	Convert  ConvertCmd  `cmd:"" help:"Convert a score to another format"`
	Validate ValidateCmd `cmd:"" help:"Validate a CanorusML score"`
	Query    QueryCmd    `cmd:"" help:"Run an XPath query against a score file"`
	Inspect  InspectCmd  `cmd:"" help:"Display a score summary"`
}

// BundleGroup contains score bundle operations.
type BundleGroup struct {
	Pack   PackCmd   `cmd:"" help:"Pack a score and its resources into a bundle"`
	Unpack UnpackCmd `cmd:"" help:"Unpack a bundle into a directory"`
	Info   InfoCmd   `cmd:"" help:"Show a bundle's manifest"`
}

// CatalogGroup contains catalog operations.
type CatalogGroup struct {
	Db string `help:"Catalog database path" default:"partita.db" type:"path"`

	Add    CatalogAddCmd    `cmd:"" help:"Import a score into the catalog"`
	List   CatalogListCmd   `cmd:"" help:"List cataloged scores"`
	Search CatalogSearchCmd `cmd:"" help:"Search the catalog"`
	Remove CatalogRemoveCmd `cmd:"" help:"Remove a catalog entry"`
}

// ConvertCmd converts a score file; the target format follows from the
// output extension: .xml for CanorusML, .mid/.midi for MIDI, .pab or
// .tar.gz for a bundle.
type ConvertCmd struct {
	Path  string `arg:"" help:"Path to score file" type:"existingfile"`
	Out   string `required:"" help:"Output path" type:"path"`
	Sheet int    `help:"Sheet index for MIDI export" default:"0"`
}

func (c *ConvertCmd) Run() error {
	res, err := importScore(c.Path)
	if err != nil {
		return err
	}
	doc := res.Document
	printWarnings(res.Warnings)

	switch ext := strings.ToLower(filepath.Ext(c.Out)); ext {
	case ".mid", ".midi":
		sheets := doc.Sheets()
		if c.Sheet < 0 || c.Sheet >= len(sheets) {
			return fmt.Errorf("sheet index %d out of range (document has %d)", c.Sheet, len(sheets))
		}
		if err := midi.ExportFile(sheets[c.Sheet], c.Out); err != nil {
			return err
		}
	case ".pab", ".gz":
		if err := bundle.Write(doc, c.Out); err != nil {
			return err
		}
	default:
		if err := canorusml.ExportFile(doc, c.Out); err != nil {
			return err
		}
	}

	fmt.Printf("Converted: %s\n", c.Path)
	fmt.Printf("  Output: %s\n", c.Out)
	return nil
}

// ValidateCmd validates a CanorusML score: XML well-formedness first, then
// a full import.
type ValidateCmd struct {
	Path string `arg:"" help:"Path to score file" type:"existingfile"`
	JSON bool   `help:"Output as JSON"`
}

func (c *ValidateCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	result := xml.Validate(data)
	if !result.Valid {
		if c.JSON {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		for _, e := range result.Errors {
			fmt.Printf("  [FAIL] line %d: %s\n", e.Line, e.Message)
		}
		return fmt.Errorf("validation failed: %s is not well-formed XML", c.Path)
	}

	res, err := canorusml.ImportFile(c.Path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if c.JSON {
		type report struct {
			Valid    bool     `json:"valid"`
			Sheets   int      `json:"sheets"`
			Warnings []string `json:"warnings,omitempty"`
		}
		r := report{Valid: true, Sheets: len(res.Document.Sheets())}
		for _, w := range res.Warnings {
			r.Warnings = append(r.Warnings, w.String())
		}
		return json.NewEncoder(os.Stdout).Encode(r)
	}

	fmt.Printf("Score: %s\n", c.Path)
	fmt.Printf("  Sheets: %d\n", len(res.Document.Sheets()))
	printWarnings(res.Warnings)
	fmt.Println("Validation passed!")
	return nil
}

// QueryCmd runs an XPath expression against a score file.
type QueryCmd struct {
	Path string `arg:"" help:"Path to score file" type:"existingfile"`
	Expr string `arg:"" help:"XPath expression"`
	Text bool   `help:"Print only the inner text of matched nodes"`
}

func (c *QueryCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return err
	}
	nodes, err := doc.XPath(c.Expr)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if c.Text {
			fmt.Println(n.InnerText())
		} else {
			fmt.Printf("%s: %s\n", n.Name(), n.InnerXML())
		}
	}
	fmt.Fprintf(os.Stderr, "%d node(s)\n", len(nodes))
	return nil
}

// InspectCmd prints a structural summary of a score.
type InspectCmd struct {
	Path string `arg:"" help:"Path to score file" type:"existingfile"`
	JSON bool   `help:"Output as JSON"`
}

func (c *InspectCmd) Run() error {
	res, err := importScore(c.Path)
	if err != nil {
		return err
	}
	doc := res.Document

	type sheetInfo struct {
		Name     string `json:"name"`
		Staves   int    `json:"staves"`
		Voices   int    `json:"voices"`
		Elements int    `json:"elements"`
	}
	var sheets []sheetInfo
	for _, sheet := range doc.Sheets() {
		si := sheetInfo{Name: sheet.Name(), Staves: len(sheet.StaffList())}
		for _, v := range sheet.VoiceList() {
			si.Voices++
			si.Elements += len(v.Elements())
		}
		sheets = append(sheets, si)
	}

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"title":     doc.Title,
			"composer":  doc.Composer,
			"sheets":    sheets,
			"resources": len(doc.Resources()),
		})
	}

	fmt.Printf("Score: %s\n", c.Path)
	if doc.Title != "" {
		fmt.Printf("  Title: %s\n", doc.Title)
	}
	if doc.Composer != "" {
		fmt.Printf("  Composer: %s\n", doc.Composer)
	}
	for _, si := range sheets {
		fmt.Printf("  %s: %d staves, %d voices, %d elements\n", si.Name, si.Staves, si.Voices, si.Elements)
	}
	if n := len(doc.Resources()); n > 0 {
		fmt.Printf("  Resources: %d\n", n)
	}
	printWarnings(res.Warnings)
	return nil
}

// PackCmd packs a score and optional embedded resources into a bundle.
type PackCmd struct {
	Path     string   `arg:"" help:"Path to score file" type:"existingfile"`
	Out      string   `required:"" help:"Output bundle path" type:"path"`
	Resource []string `help:"Embed a resource file (repeatable)" type:"existingfile"`
}

func (c *PackCmd) Run() error {
	res, err := importScore(c.Path)
	if err != nil {
		return err
	}
	doc := res.Document

	ctrl := resource.NewController()
	for _, path := range c.Resource {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		r, err := ctrl.ImportResource(name, path, false, doc, score.ResourceUndefined)
		if err != nil {
			return err
		}
		fmt.Printf("Embedded: %s (%s)\n", path, shortHash(r.SHA256))
	}

	if err := bundle.Write(doc, c.Out); err != nil {
		return err
	}
	fmt.Printf("Created: %s\n", c.Out)
	return nil
}

// UnpackCmd extracts a bundle's score and resources into a directory.
type UnpackCmd struct {
	Bundle string `arg:"" help:"Path to bundle" type:"existingfile"`
	Dir    string `required:"" help:"Output directory" type:"path"`
}

func (c *UnpackCmd) Run() error {
	doc, manifest, err := bundle.Read(c.Bundle)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return err
	}

	scorePath := filepath.Join(c.Dir, "score.xml")
	if err := canorusml.ExportFile(doc, scorePath); err != nil {
		return err
	}
	fmt.Printf("Extracted: %s\n", scorePath)

	ctrl := resource.NewController()
	for _, r := range doc.Resources() {
		if r.Linked {
			continue
		}
		path, err := ctrl.WriteContent(r, c.Dir)
		if err != nil {
			return err
		}
		fmt.Printf("Extracted: %s\n", path)
	}

	fmt.Printf("Bundle version %s, %d sheet(s)\n", manifest.Version, manifest.Sheets)
	return nil
}

// InfoCmd prints a bundle's manifest.
type InfoCmd struct {
	Bundle string `arg:"" help:"Path to bundle" type:"existingfile"`
	JSON   bool   `help:"Output as JSON"`
}

func (c *InfoCmd) Run() error {
	manifest, err := bundle.ReadManifest(c.Bundle)
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	}

	fmt.Printf("Bundle: %s\n", c.Bundle)
	fmt.Printf("  Version: %s\n", manifest.Version)
	if manifest.Title != "" {
		fmt.Printf("  Title: %s\n", manifest.Title)
	}
	if manifest.Composer != "" {
		fmt.Printf("  Composer: %s\n", manifest.Composer)
	}
	fmt.Printf("  Sheets: %d\n", manifest.Sheets)
	for _, r := range manifest.Resources {
		fmt.Printf("  Resource: %s (%s, sha256 %s)\n", r.Name, r.File, shortHash(r.SHA256))
	}
	return nil
}

// CatalogAddCmd imports a score file into the catalog.
type CatalogAddCmd struct {
	Path string `arg:"" help:"Path to score file" type:"existingfile"`
}

func (c *CatalogAddCmd) Run(group *CatalogGroup) error {
	res, err := importScore(c.Path)
	if err != nil {
		return err
	}

	cat, err := catalog.Open(group.Db)
	if err != nil {
		return err
	}
	defer cat.Close()

	entry, err := cat.Add(context.Background(), res.Document, c.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Cataloged: %s\n", c.Path)
	fmt.Printf("  ID: %s\n", entry.ID)
	fmt.Printf("  Sheets: %d, Voices: %d, Elements: %d\n", entry.Sheets, entry.Voices, entry.Elements)
	return nil
}

// CatalogListCmd lists all cataloged scores.
type CatalogListCmd struct {
	JSON bool `help:"Output as JSON"`
}

func (c *CatalogListCmd) Run(group *CatalogGroup) error {
	cat, err := catalog.Open(group.Db)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(context.Background())
	if err != nil {
		return err
	}
	return printEntries(entries, c.JSON)
}

// CatalogSearchCmd searches the catalog by title, composer or path.
type CatalogSearchCmd struct {
	Query string `arg:"" help:"Search query"`
	JSON  bool   `help:"Output as JSON"`
}

func (c *CatalogSearchCmd) Run(group *CatalogGroup) error {
	cat, err := catalog.Open(group.Db)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.Search(context.Background(), c.Query)
	if err != nil {
		return err
	}
	return printEntries(entries, c.JSON)
}

// CatalogRemoveCmd removes a catalog entry.
type CatalogRemoveCmd struct {
	ID string `arg:"" help:"Entry ID"`
}

func (c *CatalogRemoveCmd) Run(group *CatalogGroup) error {
	cat, err := catalog.Open(group.Db)
	if err != nil {
		return err
	}
	defer cat.Close()

	if err := cat.Remove(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Removed: %s\n", c.ID)
	return nil
}

// ChordCmd parses a chord symbol and prints its components.
type ChordCmd struct {
	Symbol string `arg:"" help:"Chord symbol, e.g. F#m7 or G/B"`
	JSON   bool   `help:"Output as JSON"`
}

func (c *ChordCmd) Run() error {
	parsed, err := chord.Parse(c.Symbol)
	if err != nil {
		return err
	}

	if c.JSON {
		out := map[string]interface{}{
			"symbol":   parsed.String(),
			"quality":  parsed.Quality.String(),
			"root_key": parsed.Root.MIDIPitch(),
		}
		if parsed.Extension > 0 {
			out["extension"] = parsed.Extension
		}
		if parsed.Bass.Defined() {
			out["bass_key"] = parsed.Bass.MIDIPitch()
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("Chord: %s\n", parsed)
	fmt.Printf("  Root: %s (MIDI %d)\n", parsed.Root.NoteLetter(), parsed.Root.MIDIPitch())
	fmt.Printf("  Quality: %s\n", parsed.Quality)
	if parsed.Extension > 0 {
		fmt.Printf("  Extension: %d\n", parsed.Extension)
	}
	if parsed.Bass.Defined() {
		fmt.Printf("  Bass: %s (MIDI %d)\n", parsed.Bass.NoteLetter(), parsed.Bass.MIDIPitch())
	}
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port      int      `help:"HTTP server port" default:"8081"`
	Db        string   `help:"Catalog database path" default:"partita.db" type:"path"`
	Watch     string   `help:"Score file or directory to watch for reloads" type:"path"`
	Origins   []string `help:"Allowed CORS origins (empty = allow all)"`
	APIKey    string   `name:"api-key" help:"Require this API key on requests" env:"PARTITA_API_KEY"`
	RateLimit int      `name:"rate-limit" help:"Requests per minute per client (0 = unlimited)"`
	TLSCert   string   `name:"tls-cert" help:"TLS certificate file" type:"path"`
	TLSKey    string   `name:"tls-key" help:"TLS private key file" type:"path"`
}

func (c *ServeCmd) Run() error {
	cfg := api.Config{
		Port:              c.Port,
		CatalogPath:       c.Db,
		WatchPath:         c.Watch,
		AllowedOrigins:    c.Origins,
		RateLimitRequests: c.RateLimit,
	}
	if c.APIKey != "" {
		cfg.Auth = api.AuthConfig{Enabled: true, APIKey: c.APIKey}
	}
	if c.TLSCert != "" || c.TLSKey != "" {
		cfg.TLS = api.TLSConfig{Enabled: true, CertFile: c.TLSCert, KeyFile: c.TLSKey}
	}

	s, err := api.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Start()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("partita version %s\n", version)
	fmt.Printf("  CanorusML: %s\n", canorusml.CurrentVersion)
	fmt.Printf("  SQLite driver: %s (%s)\n", sqlite.DriverName(), sqlite.DriverType())
	return nil
}

// Helper functions

func importScore(path string) (*canorusml.Result, error) {
	im := canorusml.Importer{
		Resources:  resource.NewController(),
		SourcePath: path,
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return im.Import(f)
}

func printWarnings(warnings []canorusml.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  [WARN] %s\n", w)
	}
}

func printEntries(entries []*catalog.Entry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s", e.ID, title)
		if e.Composer != "" {
			fmt.Printf(" - %s", e.Composer)
		}
		fmt.Printf("  [%d sheets, %d voices]\n", e.Sheets, e.Voices)
	}
	fmt.Printf("%d entr%s\n", len(entries), pluralY(len(entries)))
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func logLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "error":
		return logging.LevelError
	default:
		return logging.LevelWarn
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("partita"),
		kong.Description("Partita - CanorusML score toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	format := logging.FormatJSON
	if CLI.LogText {
		format = logging.FormatText
	}
	logging.InitLogger(logLevel(CLI.LogLevel), format)

	err := ctx.Run(&CLI.Catalog)
	ctx.FatalIfErrorf(err)
}
