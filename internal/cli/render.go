package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/roach88/strata/internal/ir"
)

// Snapshot is one declaration as of one version.
type Snapshot struct {
	Name    ir.QualifiedName `json:"name" yaml:"name"`
	Kind    ir.DeclKind      `json:"kind" yaml:"kind"`
	Version ir.Version       `json:"version" yaml:"version"`
	Hash    string           `json:"hash" yaml:"hash"`
	Content map[string]any   `json:"content" yaml:"content"`
}

func newSnapshot(d ir.Declaration, v ir.Version) Snapshot {
	content, _ := ir.ToPlain(d.Canonical()).(map[string]any)
	return Snapshot{
		Name:    d.DeclName(),
		Kind:    d.Kind(),
		Version: v,
		Hash:    ir.DeclarationHash(d),
		Content: content,
	}
}

// writeDeclaration renders d as an indented member listing.
func writeDeclaration(w io.Writer, d ir.Declaration) {
	fmt.Fprintf(w, "%s %s\n", d.Kind(), d.DeclName())
	switch decl := d.(type) {
	case ir.Record:
		writeProperties(w, decl.Properties)
	case ir.Enum:
		fmt.Fprintf(w, "  backing: %s\n", decl.Backing)
		for _, v := range decl.Values {
			fmt.Fprintf(w, "  %s = %s%s\n", v.Name, ir.MustMarshalCanonical(v.Value), deprecatedSuffix(v.Deprecated))
		}
	case ir.Tuple:
		for _, e := range decl.Elements {
			fmt.Fprintf(w, "  [%d] %s\n", e.Position, e.Type)
		}
	case ir.Conditional:
		fmt.Fprintf(w, "  key: %s (%s)\n", decl.Key, decl.Nesting)
		writeProperties(w, decl.Shared)
		for _, i := range decl.Interpretations {
			target := ""
			if i.Property != "" {
				target = " under " + i.Property
			}
			fmt.Fprintf(w, "  when %s=%q: %s%s%s\n", decl.Key, i.Key, i.Type, target, deprecatedSuffix(i.Deprecated))
		}
	case ir.Alias:
		fmt.Fprintf(w, "  = %s\n", decl.Backing)
	}
}

func writeProperties(w io.Writer, props []ir.Property) {
	for _, p := range props {
		var flags []string
		switch p.Requirement.Mode {
		case ir.RequiredNever:
			flags = append(flags, "optional")
		case ir.RequiredWithScope:
			flags = append(flags, "scoped:"+p.Requirement.AccessScope)
		}
		if p.Inline {
			flags = append(flags, "inline")
		}
		if p.Lenient {
			flags = append(flags, "lenient")
		}
		if p.Localized {
			flags = append(flags, "localized")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintf(w, "  %s: %s%s%s\n", p.Key, p.Type, suffix, deprecatedSuffix(p.Deprecated))
	}
}

func deprecatedSuffix(deprecated bool) string {
	if deprecated {
		return " (deprecated)"
	}
	return ""
}

// writeContent renders stored revision content as indented JSON.
func writeContent(w io.Writer, content map[string]any) {
	data, err := json.MarshalIndent(content, "  ", "  ")
	if err != nil {
		fmt.Fprintf(w, "  <%v>\n", err)
		return
	}
	fmt.Fprintf(w, "  %s\n", data)
}
