package reporter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/neehar-mavuduru/perfreport/collector"
)

// DocumentFile is the file name of the HTML report inside the output directory.
const DocumentFile = "report.html"

// DocumentOptions tunes RenderDocument.
type DocumentOptions struct {
	// MissingLimit caps the missing file listing. Defaults to 50.
	MissingLimit int
	// Now returns the generation time. Defaults to time.Now.
	Now func() time.Time
}

type legendRow struct {
	Name        string
	Description string
}

type imageRef struct {
	Title   string
	Caption string
	File    string
	Alt     string
}

type documentData struct {
	Generated string
	Legend    []legendRow
	Columns   []string
	Rows      [][]string
	Images    []imageRef
	Missing   string
}

var chartCaptions = map[string]imageRef{
	ChartCPU: {
		Title:   "Utilisation CPU (IPS & WAF)",
		Caption: "Pourcentage moyen d'utilisation CPU pendant les tests de charge",
		Alt:     "Graphique CPU",
	},
	ChartThroughput: {
		Title:   "Débit de traitement (Requests/sec)",
		Caption: "Nombre de requêtes HTTP traitées par seconde (mesure wrk)",
		Alt:     "Graphique Throughput",
	},
	ChartLatency: {
		Title:   "Latences par percentile",
		Caption: "Temps de réponse P50 et P90 en millisecondes",
		Alt:     "Graphique Latence",
	},
	ChartCombined: {
		Title:   "Vue d'ensemble combinée",
		Caption: "Analyse comparative complète de tous les indicateurs",
		Alt:     "Graphique Combiné",
	},
}

var documentTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="fr"><head><meta charset="utf-8"><title>Rapport d'analyse WAF/IPS Performance</title>
<style>
body{font-family:Arial,Helvetica,sans-serif;margin:20px;color:#333;background-color:#f8f9fa}
h1,h2{color:#0b4d8a;border-bottom:2px solid #0b4d8a;padding-bottom:5px}
.table{border-collapse:collapse;width:100%;background:white}
.table th,.table td{border:1px solid #dee2e6;padding:8px;font-size:11px}
.table th{background-color:#e9ecef;font-weight:bold;text-align:center}
.imgbox{margin:20px 0;padding:15px;border:1px solid #dee2e6;background:white;border-radius:8px}
.imgbox img{max-width:100%;height:auto}
.header{background:#0b4d8a;color:white;padding:20px;border-radius:8px;margin-bottom:20px}
.summary{background:white;padding:15px;border-radius:8px;margin-bottom:20px}
pre{background:#f8f9fa;padding:10px;border:1px solid #dee2e6;font-size:11px}
</style>
</head><body>

<div class="header">
<h1>Rapport d'Analyse de Performance WAF/IPS</h1>
<p><strong>Généré le:</strong> {{.Generated}} (UTC)</p>
</div>

<div class="summary">
<h2>Légende des scénarios testés</h2>
<table class="table"><tr><th>Scénario</th><th>Description</th></tr>
{{- range .Legend}}
<tr><td><strong>{{.Name}}</strong></td><td>{{.Description}}</td></tr>
{{- end}}
</table>
</div>

<div class="summary">
<h2>Résumé des métriques collectées</h2>
<table class="table">
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
</div>

<h2>Visualisations graphiques</h2>
{{range .Images}}
<div class="imgbox">
<h3>{{.Title}}</h3>
<p><em>{{.Caption}}</em></p>
<img src="./{{.File}}" alt="{{.Alt}}">
</div>
{{end}}
<div class="summary">
<h2>Détails techniques &amp; fichiers manquants</h2>
<p><strong>Fichiers non trouvés ou non parsables:</strong></p>
<pre>{{.Missing}}</pre>
</div>

</body></html>
`))

// RenderDocument writes the HTML report to path: the legend of the scenarios present, the
// metrics table rounded to 3 decimals, the charts that were rendered and the missing file listing.
func RenderDocument(records []collector.RunRecord, missing *collector.MissingFiles, charts ChartSet, path string, opts DocumentOptions) error {
	if opts.MissingLimit <= 0 {
		opts.MissingLimit = 50
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	data := documentData{
		Generated: opts.Now().UTC().Format(time.RFC3339),
		Legend:    legend(records),
		Columns:   Columns,
		Missing:   strings.Join(missing.Listing(opts.MissingLimit), "\n"),
	}
	for _, rec := range records {
		data.Rows = append(data.Rows, displayRow(rec))
	}
	for _, c := range Charts {
		p, ok := charts.Paths[c]
		if !ok {
			continue
		}
		ref := chartCaptions[c]
		ref.File = filepath.Base(p)
		data.Images = append(data.Images, ref)
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// legend lists each scenario present in records once, sorted by name.
func legend(records []collector.RunRecord) []legendRow {
	seen := make(map[string]string)
	for _, rec := range records {
		if _, ok := seen[rec.Scenario]; !ok {
			seen[rec.Scenario] = rec.ScenarioDescription
		}
	}

	rows := make([]legendRow, 0, len(seen))
	for name, desc := range seen {
		rows = append(rows, legendRow{Name: name, Description: desc})
	}
	slices.SortFunc(rows, func(a, b legendRow) int { return strings.Compare(a.Name, b.Name) })
	return rows
}
