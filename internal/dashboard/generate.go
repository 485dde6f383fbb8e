// Package dashboard renders Grafana dashboards for the GreptimeDB turn table.
package dashboard

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed venue-dashboard.json.tmpl
var venueTemplate string

// OutputFile is the name of the rendered dashboard inside outDir.
const OutputFile = "venue-dashboard.json"

// Data is passed to the dashboard template.
type Data struct {
	Table string
}

// Render writes the venue dashboard for table into outDir. The datasource
// UID is read from GREPTIMEDB_DATASOURCE_UID.
func Render(outDir, table string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	t, err := template.New(OutputFile).Funcs(funcMap).Parse(venueTemplate)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(outDir, OutputFile))
	if err != nil {
		return err
	}
	if err := t.Execute(f, Data{Table: table}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
