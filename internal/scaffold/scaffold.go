package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/roy-tools/roy/internal/platform"
)

//go:embed scaffolds
var scaffoldFS embed.FS

// SetWorkspace is the template set rendered into every new task workspace.
const SetWorkspace = "workspace"

// WorkspaceData holds the template variables available to the workspace set.
type WorkspaceData struct {
	Title         string
	TaskID        string
	DirectoryName string
	CreatedAt     string
	Description   string
	Stage         string
	Progress      int
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
}

// Generate renders every template in set into outputDir. The directory must
// already exist; existing files are never overwritten.
func Generate(set string, data any, outputDir string) (*Result, error) {
	templatesDir := path.Join("scaffolds", set)

	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", set, err)
	}

	result := &Result{OutputDir: outputDir}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := path.Join(templatesDir, entry.Name())
		content, err := render(tmplPath, data)
		if err != nil {
			return nil, err
		}

		// Strip .tmpl extension for the output filename.
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outPath := filepath.Join(outputDir, outName)
		if err := platform.WriteFileExclusive(outPath, content, 0644); err != nil {
			return nil, err
		}

		result.Files = append(result.Files, outName)
	}

	return result, nil
}

func render(tmplPath string, data any) ([]byte, error) {
	tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
	}

	tmpl, err := template.New(path.Base(tmplPath)).Option("missingkey=error").Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", tmplPath, err)
	}
	return buf.Bytes(), nil
}
