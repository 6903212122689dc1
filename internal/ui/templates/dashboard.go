package templates

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

var tabTitles = map[services.Tab]string{
	services.TabSales:      "Sales",
	services.TabLoss:       "Loss Analysis",
	services.TabOperations: "Operations",
	services.TabCustomers:  "Customers",
	services.TabStatistics: "Statistics",
}

type pageSignals struct {
	Tab        string   `json:"tab"`
	Years      []string `json:"years"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

type filterView struct {
	Legend string
	Param  string
	Signal string
	Values []string
}

type tabView struct {
	Name  string
	Title string
}

type pageView struct {
	Signals string
	Filters []filterView
	Tabs    []tabView
}

// page is the shell. The hidden empty input in each fieldset keeps the query
// key present when every box is cleared.
var page = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Superstore Sales Dashboard</title>
<script type="module" src="` + datastarScript + `"></script>
<style>` + stylesheet + `</style>
</head>
<body data-signals="{{.Signals}}" data-on-load="@get('/sse/refresh-all')">
<header><h1>Superstore Sales Dashboard</h1></header>
<div class="layout">
<aside class="filters">
<form method="get" action="/api/export.csv">
{{- range .Filters}}
<fieldset><legend>{{.Legend}}</legend><input type="hidden" name="{{.Param}}" value="">
{{- $f := .}}{{range .Values}}
<label><input type="checkbox" name="{{$f.Param}}" value="{{.}}" data-bind="{{$f.Signal}}" data-on-change="@get('/sse/refresh-all')"> {{.}}</label>
{{- end}}
</fieldset>
{{- end}}
<button type="submit">Download filtered CSV</button>
</form>
</aside>
<div class="content">
<div id="kpis" class="kpis"></div>
<nav class="tabs">
{{- range .Tabs}}
<button type="button" data-on-click="$tab = '{{.Name}}'" data-class-active="$tab == '{{.Name}}'">{{.Title}}</button>
{{- end}}
</nav>
{{- range .Tabs}}
<div data-show="$tab == '{{.Name}}'"><div id="tab-{{.Name}}" class="tab-panel">Loading…</div></div>
{{- end}}
<details><summary>Filtered records</summary><div id="detail"></div></details>
</div>
</div>
</body>
</html>
`))

// Dashboard renders the page shell. Every filter starts fully selected; the
// panels are filled by /sse/refresh-all once the page loads.
func Dashboard(opts models.Options) templ.Component {
	years := make([]string, len(opts.Years))
	for i, y := range opts.Years {
		years[i] = strconv.Itoa(y)
	}
	view := pageView{
		Filters: []filterView{
			{Legend: "Year", Param: "year", Signal: "years", Values: years},
			{Legend: "Region", Param: "region", Signal: "regions", Values: opts.Regions},
			{Legend: "Category", Param: "category", Signal: "categories", Values: opts.Categories},
		},
	}
	for _, tab := range services.Tabs {
		view.Tabs = append(view.Tabs, tabView{Name: string(tab), Title: tabTitles[tab]})
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(pageSignals{
			Tab:        string(services.TabSales),
			Years:      years,
			Regions:    opts.Regions,
			Categories: opts.Categories,
		})
		if err != nil {
			return err
		}
		v := view
		v.Signals = string(signals)
		return page.Execute(w, v)
	})
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#222}
header{background:#1f3b57;color:#fff;padding:12px 24px}
.layout{display:flex;gap:16px;padding:16px}
.filters{width:220px;flex-shrink:0}
.filters fieldset{border:1px solid #ccd;margin-bottom:12px;background:#fff}
.filters label{display:block;font-size:14px}
.content{flex:1;min-width:0}
.kpis{display:grid;grid-template-columns:repeat(5,1fr);gap:12px;margin-bottom:16px}
.kpi{background:#fff;border-radius:6px;padding:12px;box-shadow:0 1px 2px rgba(0,0,0,.1)}
.kpi .value{font-size:22px;font-weight:600}
.tabs button{border:0;padding:8px 14px;background:#e3e7ee;cursor:pointer}
.tabs button.active{background:#1f3b57;color:#fff}
.tab-panel{display:grid;grid-template-columns:repeat(auto-fill,minmax(420px,1fr));gap:12px;margin-top:12px}
.card{background:#fff;border-radius:6px;padding:12px;overflow-x:auto}
.modern-table{border-collapse:collapse;width:100%;font-size:13px}
.modern-table th,.modern-table td{padding:4px 8px;border-bottom:1px solid #eee;text-align:left}
.modern-table td.num{text-align:right;font-variant-numeric:tabular-nums}
.bar-row{display:flex;align-items:center;gap:8px;font-size:13px;margin:2px 0}
.bar-label{width:140px;overflow:hidden;text-overflow:ellipsis;white-space:nowrap}
.bar{display:inline-block;height:12px;background:#4c78a8}
.bar.negative{background:#e45756}
.empty,.notice{color:#777;font-style:italic}
.period{grid-column:1/-1;margin:0;font-size:13px;color:#555}
.scatter{width:100%;height:auto}
.scatter .axis{stroke:#999}
.c0{fill:#4c78a8;color:#4c78a8}
.c1{fill:#f58518;color:#f58518}
.c2{fill:#54a24b;color:#54a24b}
.c3{fill:#b279a2;color:#b279a2}
`
