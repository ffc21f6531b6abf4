package xml

import (
	"strings"
	"testing"
)

const sampleScore = `<?xml version="1.0"?>
<canorus-document>
	<canorus-version>0.7.10</canorus-version>
	<document title="Missa brevis" composer="Palestrina">
		<sheet name="Kyrie">
			<staff name="Soprano">
				<voice name="Voice1">
					<clef clef-type="G" c1="2" time-start="0"/>
					<note time-start="0" time-length="256"/>
				</voice>
			</staff>
			<staff name="Alto">
				<voice name="Voice2"/>
			</staff>
		</sheet>
	</document>
</canorus-document>`

func TestParseValidXML(t *testing.T) {
	doc, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc == nil {
		t.Fatal("Parse returned nil document")
	}
	if root := doc.Root(); root == nil || root.Name() != "canorus-document" {
		t.Errorf("Root() = %v", root)
	}
}

func TestParseInvalidXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unclosed tag", "<document><sheet></document>"},
		{"mismatched tags", "<document></sheet>"},
		{"invalid chars", "<document>\x00</document>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.xml)); err == nil {
				t.Error("Parse should fail for invalid XML")
			}
		})
	}
}

func TestValidateWellFormed(t *testing.T) {
	result := Validate([]byte(sampleScore))
	if !result.Valid {
		t.Errorf("valid score should pass: %v", result.Errors)
	}
}

func TestValidateMalformed(t *testing.T) {
	result := Validate([]byte("<document>\n<sheet>\n</document>"))
	if result.Valid {
		t.Fatal("malformed score should fail validation")
	}
	if len(result.Errors) == 0 {
		t.Fatal("no validation errors reported")
	}
	if result.Errors[0].Line == 0 {
		t.Error("validation error carries no line number")
	}
}

func TestValidateEntityExpansionDisabled(t *testing.T) {
	payload := `<?xml version="1.0"?>
<!DOCTYPE document [<!ENTITY bomb "boom">]>
<document title="&bomb;"/>`
	result := Validate([]byte(payload))
	if result.Valid {
		t.Error("custom entities must not expand during validation")
	}
}

func TestXPathQuery(t *testing.T) {
	doc, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	staves, err := doc.XPath("//staff")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(staves) != 2 {
		t.Errorf("XPath(//staff) returned %d nodes, want 2", len(staves))
	}

	names, err := doc.XPath("//staff/@name")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("XPath(//staff/@name) returned %d nodes, want 2", len(names))
	}
}

func TestXPathFirst(t *testing.T) {
	doc, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	version, err := doc.XPathFirst("//canorus-version")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if version == nil || version.Text() != "0.7.10" {
		t.Errorf("version node = %v", version)
	}

	missing, err := doc.XPathFirst("//no-such-element")
	if err != nil {
		t.Fatalf("XPathFirst failed: %v", err)
	}
	if missing != nil {
		t.Error("XPathFirst should return nil for no match")
	}
}

func TestXPathInvalidExpression(t *testing.T) {
	doc, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := doc.XPath("//[broken"); err == nil {
		t.Error("invalid xpath should error")
	}
}

func TestNodeAccessors(t *testing.T) {
	doc, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	note, err := doc.XPathFirst("//note")
	if err != nil || note == nil {
		t.Fatalf("note lookup failed: %v", err)
	}
	if note.Attr("time-start") != "0" || note.Attr("time-length") != "256" {
		t.Errorf("note attrs = %v", note.Attributes())
	}

	staff, err := doc.XPathFirst("//staff")
	if err != nil || staff == nil {
		t.Fatalf("staff lookup failed: %v", err)
	}
	children := staff.Children()
	if len(children) != 1 || children[0].Name() != "voice" {
		t.Errorf("staff children = %v", children)
	}
}

func TestFormat(t *testing.T) {
	compact := `<?xml version="1.0"?><document title="A &amp; B"><sheet name="S"><staff/></sheet></document>`
	out, err := Format([]byte(compact), FormatOptions{Indent: "  "})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	formatted := string(out)
	if !strings.Contains(formatted, "\n  <sheet") {
		t.Errorf("sheet not indented:\n%s", formatted)
	}
	if !strings.Contains(formatted, `title="A &amp; B"`) {
		t.Errorf("attribute escaping lost:\n%s", formatted)
	}

	// formatted output stays parseable
	if _, err := Parse(out); err != nil {
		t.Errorf("formatted output unparseable: %v", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := doc.Serialize()
	if len(out) == 0 {
		t.Fatal("Serialize returned empty output")
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	staves, err := again.XPath("//staff")
	if err != nil || len(staves) != 2 {
		t.Errorf("round trip lost staves: %d, %v", len(staves), err)
	}
}
