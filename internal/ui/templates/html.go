package templates

import (
	"html/template"

	"github.com/a-h/templ"
)

var funcs = template.FuncMap{
	"money":    Money,
	"number":   Number,
	"decimal":  Decimal,
	"percent":  Percent,
	"discount": func(v float64) string { return Percent(v * 100) },
}

// fragments holds every element the SSE handlers patch into the page.
var fragments = template.Must(template.New("fragments").Funcs(funcs).Parse(`
{{define "kpis"}}<div id="kpis" class="kpis">
<div class="kpi"><div class="label">Total Sales</div><div class="value">{{money .TotalSales}}</div></div>
<div class="kpi"><div class="label">Total Profit</div><div class="value">{{money .TotalProfit}}</div></div>
<div class="kpi"><div class="label">Orders</div><div class="value">{{number .Orders}}</div></div>
<div class="kpi"><div class="label">Customers</div><div class="value">{{number .Customers}}</div></div>
<div class="kpi"><div class="label">Avg Order Value</div><div class="value">{{money .AvgOrderValue}}</div></div>
{{if .Records}}<p class="period">{{number .Records}} order lines from {{.PeriodStart}} to {{.PeriodEnd}}</p>
{{else}}<p class="notice">No records match the current filters.</p>
{{end}}</div>{{end}}

{{define "detail"}}<div id="detail"><table id="detail-table" class="modern-table">
<thead><tr><th>Order Date</th><th>Order ID</th><th>Customer</th><th>Region</th><th>Category</th><th>Product</th><th>Sales</th><th>Profit</th><th>Discount</th><th>Qty</th><th>Margin</th></tr></thead>
<tbody>{{range .}}
<tr><td>{{.OrderDate}}</td><td>{{.OrderID}}</td><td>{{.CustomerName}}</td><td>{{.Region}}</td><td>{{.Category}}</td><td>{{.ProductName}}</td><td class="num">{{money .Sales}}</td><td class="num">{{money .Profit}}</td><td class="num">{{discount .Discount}}</td><td class="num">{{number .Quantity}}</td><td class="num">{{percent .ProfitMargin}}</td></tr>
{{- else}}
<tr><td colspan="11" class="empty">No data</td></tr>
{{- end}}</tbody></table></div>{{end}}

{{define "panel"}}<div id="tab-{{.Tab}}" class="tab-panel">{{range .Cards}}
<section class="card"><h3>{{.Title}}</h3>
{{- with .Note}}<p>{{.}}</p>{{end}}
{{- with .Table}}{{template "table" .}}{{end}}
{{- with .Bars}}{{template "bars" .}}{{end}}
{{- with .Scatter}}{{template "scatter" .}}{{end -}}
</section>{{end}}
</div>{{end}}

{{define "table"}}<table id="{{.ID}}" class="modern-table">
<thead><tr>{{range .Columns}}<th>{{.Title}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}
<tr>{{range .}}<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr>
{{- else}}
<tr><td colspan="{{len .Columns}}" class="empty">No data</td></tr>
{{- end}}</tbody></table>{{end}}

{{define "bars"}}<div id="{{.ID}}" class="bars">{{range .Bars}}
<div class="bar-row"><span class="bar-label">{{.Label}}</span><span class="bar{{if .Negative}} negative{{end}}" style="width:{{.Width}}%"></span><span class="bar-value">{{.Value}}</span></div>
{{- else}}
<p class="empty">No data</p>
{{- end}}</div>{{end}}

{{define "scatter"}}<svg id="{{.ID}}" class="scatter" viewBox="0 0 400 240" role="img">
<line class="axis" x1="30" y1="220" x2="390" y2="220"></line><line class="axis" x1="30" y1="20" x2="30" y2="220"></line>
{{- range .Points}}
<circle cx="{{.X}}" cy="{{.Y}}" r="3" class="{{.Class}}"><title>{{.Label}}</title></circle>
{{- end}}
</svg>
{{- with .Legend}}<p class="legend">{{range .}}<span class="{{.Class}}">{{.Label}}</span> {{end}}</p>{{end}}
{{- end}}
`))

func fragment(name string, data any) templ.Component {
	return templ.FromGoHTML(fragments.Lookup(name), data)
}
