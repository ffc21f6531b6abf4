package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minuetScore = `<?xml version="1.0" encoding="UTF-8"?><canorus-document>` +
	`<canorus-version>0.7.10</canorus-version>` +
	`<document title="Minuet" composer="Petzold" time-edited="0">` +
	`<sheet><staff><voice>` +
	`<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/></note>` +
	`<note time-start="256"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="30" accs="0"/></note>` +
	`</voice></staff></sheet></document></canorus-document>`

func writeTestScore(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "minuet.xml")
	if err := os.WriteFile(path, []byte(minuetScore), 0644); err != nil {
		t.Fatalf("failed to create test score: %v", err)
	}
	return path
}

func TestConvertToCanorusML(t *testing.T) {
	dir := t.TempDir()
	cmd := ConvertCmd{Path: writeTestScore(t, dir), Out: filepath.Join(dir, "out.xml")}
	if err := cmd.Run(); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(cmd.Out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<canorus-version>") {
		t.Error("output is not CanorusML")
	}
}

func TestConvertToMIDI(t *testing.T) {
	dir := t.TempDir()
	cmd := ConvertCmd{Path: writeTestScore(t, dir), Out: filepath.Join(dir, "out.mid")}
	if err := cmd.Run(); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(cmd.Out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "MThd") {
		t.Error("output is not a MIDI file")
	}
}

func TestConvertSheetOutOfRange(t *testing.T) {
	dir := t.TempDir()
	cmd := ConvertCmd{Path: writeTestScore(t, dir), Out: filepath.Join(dir, "out.mid"), Sheet: 5}
	if err := cmd.Run(); err == nil {
		t.Error("sheet index out of range should fail")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	cmd := ValidateCmd{Path: writeTestScore(t, dir)}
	if err := cmd.Run(); err != nil {
		t.Errorf("valid score rejected: %v", err)
	}

	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte("<canorus-document><document>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := (&ValidateCmd{Path: bad}).Run(); err == nil {
		t.Error("malformed score accepted")
	}
}

func TestBundlePackUnpackInfo(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "theme.mid")
	if err := os.WriteFile(media, []byte("MThd fake"), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "minuet.pab")
	pack := PackCmd{Path: writeTestScore(t, dir), Out: out, Resource: []string{media}}
	if err := pack.Run(); err != nil {
		t.Fatalf("pack: %v", err)
	}

	if err := (&InfoCmd{Bundle: out}).Run(); err != nil {
		t.Errorf("info: %v", err)
	}

	extractDir := filepath.Join(dir, "extracted")
	if err := (&UnpackCmd{Bundle: out, Dir: extractDir}).Run(); err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if _, err := os.Stat(filepath.Join(extractDir, "score.xml")); err != nil {
		t.Error("unpack did not produce score.xml")
	}
	if _, err := os.Stat(filepath.Join(extractDir, "theme.mid")); err != nil {
		t.Error("unpack did not produce the embedded resource")
	}
}

func TestCatalogCommands(t *testing.T) {
	dir := t.TempDir()
	group := CatalogGroup{Db: filepath.Join(dir, "catalog.db")}

	add := CatalogAddCmd{Path: writeTestScore(t, dir)}
	if err := add.Run(&group); err != nil {
		t.Fatalf("catalog add: %v", err)
	}
	if err := (&CatalogListCmd{}).Run(&group); err != nil {
		t.Errorf("catalog list: %v", err)
	}
	if err := (&CatalogSearchCmd{Query: "petzold"}).Run(&group); err != nil {
		t.Errorf("catalog search: %v", err)
	}
	if err := (&CatalogRemoveCmd{ID: "no-such-id"}).Run(&group); err == nil {
		t.Error("removing a missing entry should fail")
	}
}

func TestChordCommand(t *testing.T) {
	if err := (&ChordCmd{Symbol: "F#m7"}).Run(); err != nil {
		t.Errorf("chord: %v", err)
	}
	if err := (&ChordCmd{Symbol: "H9"}).Run(); err == nil {
		t.Error("invalid chord symbol accepted")
	}
}

func TestQueryCommand(t *testing.T) {
	dir := t.TempDir()
	cmd := QueryCmd{Path: writeTestScore(t, dir), Expr: "//note"}
	if err := cmd.Run(); err != nil {
		t.Errorf("query: %v", err)
	}
	if err := (&QueryCmd{Path: writeTestScore(t, dir), Expr: "//["}).Run(); err == nil {
		t.Error("invalid XPath accepted")
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	if err := (&InspectCmd{Path: writeTestScore(t, dir)}).Run(); err != nil {
		t.Errorf("inspect: %v", err)
	}
	if err := (&InspectCmd{Path: writeTestScore(t, dir), JSON: true}).Run(); err != nil {
		t.Errorf("inspect --json: %v", err)
	}
}
