package config

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/fsgen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCLLoader is the HCL implementation of Loader.
type HCLLoader struct{}

// NewHCLLoader creates a new HCL project loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

type fileRoot struct {
	Applications []*applicationBlock `hcl:"application,block"`
	Remain       hcl.Body            `hcl:",remain"`
}

type applicationBlock struct {
	Name    string         `hcl:"name,label"`
	Version hcl.Expression `hcl:"version"`
	Board   string         `hcl:"board"`
	MCU     string         `hcl:"mcu"`
	Output  string         `hcl:"output"`
	Inputs  []string       `hcl:"inputs"`
	ABI     *abiBlock      `hcl:"abi,block"`
}

type abiBlock struct {
	LongSize *int `hcl:"long_size,optional"`
}

// Load parses and decodes the project file at path.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading project file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing project file %s", path)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decoding project file %s", path)
	}
	if n := len(root.Applications); n != 1 {
		return nil, errors.Newf("%s: expected exactly one application block, found %d", path, n)
	}
	app := root.Applications[0]

	version, err := stringValue(app.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: application %q: version", path, app.Name)
	}

	dir := filepath.Dir(path)
	p := &Project{
		Name:    app.Name,
		Version: version,
		Board:   app.Board,
		MCU:     app.MCU,
		Output:  resolve(dir, app.Output),
		Source:  path,
	}
	for _, in := range app.Inputs {
		p.Inputs = append(p.Inputs, resolve(dir, in))
	}
	if app.ABI != nil && app.ABI.LongSize != nil {
		p.LongSize = *app.ABI.LongSize
	}

	logger.Debug("Project file loaded.", "application", p.Name, "inputs", len(p.Inputs))
	return p, nil
}

// stringValue evaluates expr without variables and converts the result to a
// string, so that `version = 1.2` and `version = "1.2"` are equivalent.
func stringValue(expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return "", errors.New("must not be null")
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", errors.Wrap(err, "must be a string or a number")
	}
	var s string
	if err := gocty.FromCtyValue(val, &s); err != nil {
		return "", err
	}
	return s, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
