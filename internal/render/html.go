package render

import (
	"bytes"
	"fmt"
	"html/template"
)

var fragment = template.Must(template.New("review").Parse(`{{if .IsError}}<div class="error">{{.Error}}</div>
{{else}}{{range .Panels}}<div class="box collapse {{.Key}}">
  <div class="toggle-header">{{.Label}}</div>
  <div class="collapse-content" style="display: {{if .Expanded}}block{{else}}none{{end}}">{{if .IsList}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>{{else if .IsEmpty}}<p>{{.Text}}</p>{{else}}{{.Text}}{{end}}</div>
</div>
{{end}}<script>
document.querySelectorAll('.toggle-header').forEach(function (header) {
  var content = header.nextElementSibling;
  header.addEventListener('click', function () {
    var current = window.getComputedStyle(content).display;
    content.style.display = current === 'block' ? 'none' : 'block';
  });
});
</script>
{{end}}`))

// HTML renders the view as a document fragment. Error views carry no script.
func HTML(v View) (string, error) {
	var buf bytes.Buffer
	if err := fragment.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
