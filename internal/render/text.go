package render

import "strings"

// Text renders the view as an indented plain-text listing.
func Text(v View) string {
	if v.IsError() {
		return v.Error + "\n"
	}
	var b strings.Builder
	for i, p := range v.Panels {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Label)
		b.WriteByte('\n')
		if p.IsList() {
			for _, item := range p.Items {
				b.WriteString("  - ")
				b.WriteString(item)
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteString("  ")
		b.WriteString(p.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
