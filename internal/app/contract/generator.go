package contract

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"irs-backend/internal/app/config"
	"irs-backend/internal/app/ds"
)

// Generator рендерит статичный HTML контракта по данным проекта.
// Документ самодостаточный (стили inline), хранится в MinIO как text/html.
type Generator struct {
	company config.CompanyConfig
	tmpl    *template.Template
}

type contractData struct {
	Company     config.CompanyConfig
	ClientName  string
	ClientEmail string
	ClientOrg   string

	ProjectName   string
	TrackingCode  string
	ServiceType   string
	Location      string
	Vessel        string
	StartDate     string
	EndDate       string
	ContractValue string

	Milestones  []contractMilestone
	Note        string
	GeneratedAt string
}

type contractMilestone struct {
	Name    string
	DueDate string
}

const contractTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Service Contract - {{.ProjectName}}</title>
<style>
body { font-family: Georgia, serif; margin: 48px; color: #1a2332; }
h1 { font-size: 22px; border-bottom: 2px solid #1a2332; padding-bottom: 8px; }
h2 { font-size: 16px; margin-top: 28px; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
td, th { border: 1px solid #8a93a3; padding: 6px 10px; text-align: left; font-size: 13px; }
.value { font-size: 18px; font-weight: bold; }
.note { background: #f4f1e8; padding: 12px; margin-top: 20px; font-size: 13px; }
.footer { margin-top: 48px; font-size: 11px; color: #5a6372; }
.sig { margin-top: 60px; display: flex; justify-content: space-between; }
.sig div { width: 40%; border-top: 1px solid #1a2332; padding-top: 6px; font-size: 12px; }
</style>
</head>
<body>
<h1>SERVICE CONTRACT</h1>
<p>{{.Company.Name}}{{if .Company.Address}}, {{.Company.Address}}{{end}}{{if .Company.Email}} &middot; {{.Company.Email}}{{end}}{{if .Company.Phone}} &middot; {{.Company.Phone}}{{end}}</p>

<h2>1. Parties</h2>
<table>
<tr><th>Contractor</th><td>{{.Company.Name}}</td></tr>
<tr><th>Client</th><td>{{.ClientName}}{{if .ClientOrg}} ({{.ClientOrg}}){{end}}</td></tr>
{{if .ClientEmail}}<tr><th>Client contact</th><td>{{.ClientEmail}}</td></tr>{{end}}
</table>

<h2>2. Scope of work</h2>
<table>
<tr><th>Project</th><td>{{.ProjectName}}</td></tr>
{{if .TrackingCode}}<tr><th>Tracking code</th><td>{{.TrackingCode}}</td></tr>{{end}}
<tr><th>Service type</th><td>{{.ServiceType}}</td></tr>
{{if .Location}}<tr><th>Location</th><td>{{.Location}}</td></tr>{{end}}
{{if .Vessel}}<tr><th>Vessel</th><td>{{.Vessel}}</td></tr>{{end}}
<tr><th>Start date</th><td>{{.StartDate}}</td></tr>
<tr><th>Completion date</th><td>{{.EndDate}}</td></tr>
</table>

<h2>3. Contract value</h2>
<p class="value">USD {{.ContractValue}}</p>

{{if .Milestones}}
<h2>4. Delivery milestones</h2>
<table>
<tr><th>#</th><th>Milestone</th><th>Due date</th></tr>
{{range $i, $m := .Milestones}}<tr><td>{{inc $i}}</td><td>{{$m.Name}}</td><td>{{$m.DueDate}}</td></tr>
{{end}}</table>
{{end}}

{{if .Note}}<div class="note"><strong>Additional terms:</strong> {{.Note}}</div>{{end}}

<div class="sig">
<div>For the Contractor</div>
<div>For the Client</div>
</div>

<p class="footer">Generated {{.GeneratedAt}} by {{.Company.Name}} client portal.</p>
</body>
</html>
`

func NewGenerator(company config.CompanyConfig) *Generator {
	tmpl := template.Must(template.New("contract").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(contractTemplate))

	return &Generator{
		company: company,
		tmpl:    tmpl,
	}
}

// Title возвращает заголовок документа контракта для проекта
func Title(projectName string) string {
	return ds.ContractTitlePrefix + projectName
}

// Render собирает HTML контракта по проекту, клиенту и этапам
func (g *Generator) Render(project *ds.Project, client *ds.User, milestones []ds.Milestone, note string) ([]byte, error) {
	data := contractData{
		Company:     g.company,
		ClientName:  client.FullName,
		ClientEmail: client.Email,
		ClientOrg:   client.Company,

		ProjectName:   project.Name,
		TrackingCode:  project.TrackingCode,
		ServiceType:   project.ServiceType,
		Location:      project.Location,
		Vessel:        project.Vessel,
		StartDate:     formatDate(project.StartDate),
		EndDate:       formatDate(project.EndDate),
		ContractValue: fmt.Sprintf("%.2f", project.ContractValue),

		Note:        note,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
	}

	for _, m := range milestones {
		data.Milestones = append(data.Milestones, contractMilestone{
			Name:    m.Name,
			DueDate: formatDate(m.DueDate),
		})
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render contract: %w", err)
	}

	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "TBD"
	}
	return t.Format("2006-01-02")
}
