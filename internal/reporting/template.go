// File: internal/reporting/template.go
package reporting

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Visit Processor Test Report</title>
<style>
body { font-family: 'Segoe UI', Arial, sans-serif; margin: 0; background: #f4f5f7; color: #1f2430; }
header { background: #1f3a5f; color: #fff; padding: 24px 32px; }
header h1 { margin: 0 0 4px; font-size: 22px; }
header .meta { font-size: 13px; opacity: 0.85; }
.summary { display: flex; gap: 16px; padding: 24px 32px 0; }
.card { background: #fff; border-radius: 6px; padding: 16px 24px; box-shadow: 0 1px 3px rgba(0,0,0,.12); min-width: 110px; }
.card .num { font-size: 28px; font-weight: 600; }
.card.passed .num { color: #1e7e34; }
.card.failed .num { color: #b02a37; }
.card.error .num { color: #8a6d00; }
section.scenario { background: #fff; margin: 24px 32px; border-radius: 6px; box-shadow: 0 1px 3px rgba(0,0,0,.12); overflow: hidden; }
section.scenario h2 { margin: 0; padding: 14px 20px; font-size: 16px; border-bottom: 1px solid #e3e6eb; }
.badge { display: inline-block; padding: 2px 10px; border-radius: 10px; font-size: 12px; font-weight: 600; margin-left: 10px; }
.badge.passed { background: #d4edda; color: #1e7e34; }
.badge.failed { background: #f8d7da; color: #b02a37; }
.badge.error { background: #fff3cd; color: #8a6d00; }
table { width: 100%; border-collapse: collapse; font-size: 13px; }
th, td { text-align: left; padding: 8px 20px; border-bottom: 1px solid #eef0f3; }
th { background: #fafbfc; font-weight: 600; }
td.status { font-weight: 600; }
td.status.passed { color: #1e7e34; }
td.status.failed { color: #b02a37; }
td.status.error { color: #8a6d00; }
td.status.pending { color: #868e96; }
td.detail { color: #6c757d; max-width: 480px; }
</style>
</head>
<body>
<header>
<h1>Visit Processor Test Report</h1>
<div class="meta">Run {{.RunID}} &middot; generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</div>
</header>
<div class="summary">
<div class="card passed"><div class="num">{{.Passed}}</div>Passed</div>
<div class="card failed"><div class="num">{{.Failed}}</div>Failed</div>
<div class="card error"><div class="num">{{.Aborted}}</div>Aborted</div>
<div class="card"><div class="num">{{percent .PassRate}}</div>Pass rate</div>
</div>
{{range .Scenarios}}
<section class="scenario">
<h2>{{.Scenario.Name}}<span class="badge {{verdictClass .Overall}}">{{.Overall}}</span></h2>
<table>
<tr><th>#</th><th>Step</th><th>Status</th><th>Time</th><th>Evidence</th><th>Detail</th></tr>
{{range $i, $step := .Scenario.Steps}}
<tr>
<td>{{$i}}</td>
<td>{{$step.Description}}</td>
<td class="status {{statusClass $step.Status}}">{{$step.Status}}</td>
<td>{{clock $step.Timestamp}}</td>
<td>{{if $step.EvidenceRef}}<a href="{{$step.EvidenceRef}}">{{base $step.EvidenceRef}}</a>{{end}}</td>
<td class="detail">{{$step.Detail}}</td>
</tr>
{{end}}
</table>
</section>
{{end}}
</body>
</html>
`
