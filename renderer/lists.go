package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/cashbook"
	md "github.com/nao1215/markdown"
)

// Snapshots renders the names of the saved snapshots of a kind.
func Snapshots(kind string, names []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Saved %s snapshots", kind))
	if len(names) == 0 {
		doc.PlainText("None.")
		return doc.String()
	}
	doc.BulletList(names...)
	return doc.String()
}

// Settings renders the settings and an example amount.
func Settings(s *cashbook.Settings) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Settings")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"Setting", "Value"},
		Rows: [][]string{
			{"language", s.Language},
			{"theme", s.Theme},
			{"mode", string(s.DecimalMode)},
			{"currency", s.CurrencySymbol},
		},
	})
	doc.PlainText(fmt.Sprintf("Amounts display as %s", md.Bold(s.Format(cashbook.ParseDecimalOrZero("1234.5")))))
	return doc.String()
}
