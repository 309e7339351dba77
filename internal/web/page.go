package web

import (
	"html/template"
	"slices"
)

// download is an export artifact embedded in the page as a data URL
type download struct {
	Label    string
	FileName string
	URL      template.URL
}

// page is the view model of the index template
type page struct {
	Title     string
	Mode      string
	Remote    []string
	Selected  []string
	Processed bool
	Columns   []string
	Rows      [][]string
	Failures  []string
	Downloads []download
	Error     string
}

func (s *Server) newPage(mode string, selected []string) *page {
	if mode != modeRemote {
		mode = modeUpload
	}
	return &page{
		Title:    "Extração de Informações de Termos de Aditamento",
		Mode:     mode,
		Remote:   s.service.RemoteNames(),
		Selected: selected,
	}
}

var templateFuncs = template.FuncMap{
	"contains": func(list []string, v string) bool { return slices.Contains(list, v) },
}

const indexTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; vertical-align: top; }
.error { color: #b00020; }
.warning { color: #8a6d3b; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="post" action="/process" enctype="multipart/form-data">
  <fieldset>
    <legend>Escolha a forma de entrada dos PDFs:</legend>
    <label><input type="radio" name="mode" value="upload"{{if eq .Mode "upload"}} checked{{end}}> Subir PDFs</label>
    <label><input type="radio" name="mode" value="remote"{{if eq .Mode "remote"}} checked{{end}}> Usar PDFs do GitHub</label>
  </fieldset>
  <p>
    <label for="files">Envie os arquivos PDF dos Termos de Aditamento:</label>
    <input type="file" id="files" name="files" accept="application/pdf,.pdf" multiple>
  </p>
  <p>
    <label for="names">Selecione os PDFs do GitHub para processar:</label><br>
    <select id="names" name="names" multiple size="{{len .Remote}}">
    {{- range .Remote}}
      <option value="{{.}}"{{if contains $.Selected .}} selected{{end}}>{{.}}</option>
    {{- end}}
    </select>
  </p>
  <button type="submit">Processar</button>
</form>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- end}}
{{- range .Failures}}
<p class="warning">{{.}}</p>
{{- end}}
{{- if .Processed}}
{{- if .Rows}}
<h2>Resumo das Informações Extraídas</h2>
<table>
  <thead>
    <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
  </thead>
  <tbody>
  {{- range .Rows}}
    <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{- end}}
  </tbody>
</table>
<p>
{{- range .Downloads}}
  <a href="{{.URL}}" download="{{.FileName}}">{{.Label}}</a>
{{- end}}
</p>
{{- else}}
<p>Nenhum documento foi processado.</p>
{{- end}}
{{- end}}
</body>
</html>
`
