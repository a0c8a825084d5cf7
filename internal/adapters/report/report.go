// Package report renders registries and catalogs as text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// Listing is the part of a registry a dump needs.
type Listing interface {
	Categories() []string
	Objects(category string) []domain.Object
}

// Dump writes one row per (category, object) pair, categories and
// identifiers in sorted order. Empty categories are listed with no object.
func Dump(w io.Writer, reg Listing) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Identifier", "Type", "TTL"})
	for _, category := range reg.Categories() {
		objects := reg.Objects(category)
		if len(objects) == 0 {
			t.AppendRow(table.Row{category, "", "", ""})
			continue
		}
		for _, obj := range objects {
			t.AppendRow(table.Row{category, obj.Identifier(), typeOf(obj), obj.TTL().String()})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	t.Render()
}

// Kinds writes the representations known to a catalog: their category chain
// and signature.
func Kinds(w io.Writer, kinds []string, catalog ports.Catalog) error {
	t := newTable(w)
	t.AppendHeader(table.Row{"Kind", "Categories", "Signature"})
	for _, kind := range kinds {
		rep, err := catalog.Lookup(kind)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{kind, strings.Join(rep.Categories(), " > "), signature(rep.Signature())})
	}
	t.Render()
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}

func signature(sig domain.Signature) string {
	params := sig.Params()
	parts := make([]string, 0, len(params))
	for _, name := range params {
		parts = append(parts, name+": "+sig[name].Name())
	}
	return strings.Join(parts, ", ")
}

// typeOf is the most-derived category of obj, falling back to its Go type.
func typeOf(obj domain.Object) string {
	if categories := obj.Categories(); len(categories) > 0 {
		return categories[0]
	}
	return fmt.Sprintf("%T", obj)
}
