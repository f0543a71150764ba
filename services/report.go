package services

import (
	"fmt"
	"html/template"
	"strings"
	"text/tabwriter"

	"price-monitor/models"
)

var reportTemplate = template.Must(template.New("alerts").Parse(`<table border="1">
  <thead>
    <tr><th>Product</th><th>Source</th><th>Old Price</th><th>New Price</th><th>URL</th></tr>
  </thead>
  <tbody>
{{- range . }}
    <tr><td>{{ .Product }}</td><td>{{ .Source }}</td><td>{{ .OldPriceLabel }}</td><td>{{ .NewPriceLabel }}</td><td><a href="{{ .URL }}">{{ .URL }}</a></td></tr>
{{- end }}
  </tbody>
</table>
`))

// RenderHTML renders the alert list as an HTML table for the email body.
func RenderHTML(alerts []*models.Alert) (string, error) {
	var b strings.Builder
	if err := reportTemplate.Execute(&b, alerts); err != nil {
		return "", fmt.Errorf("report: render html: %w", err)
	}
	return b.String(), nil
}

// RenderText renders the alert list as an aligned plain-text table.
func RenderText(alerts []*models.Alert) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Product\tSource\tOld Price\tNew Price\tURL")
	for _, a := range alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.Product, a.Source, a.OldPriceLabel(), a.NewPriceLabel(), a.URL)
	}
	w.Flush()
	return b.String()
}
