package app

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/artifact"
	"github.com/specialistvlad/fsgen/internal/emit"
	"github.com/specialistvlad/fsgen/internal/fsutil"
	"github.com/specialistvlad/fsgen/internal/generator"
)

// Run executes the configured mode. Nothing is written unless every phase
// succeeds.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode)

	model, err := a.generate(ctx)
	if err != nil {
		return err
	}

	switch a.config.Mode {
	case ModeInspect:
		err = a.inspect(model)
	default:
		err = a.write(ctx, model)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) generate(ctx context.Context) (*generator.Artifact, error) {
	files, err := fsutil.ExpandInputs(a.config.Inputs, a.config.Extensions)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Inputs resolved.", "files", len(files))
	if len(files) == 0 {
		return nil, errors.New("no input files found")
	}

	return generator.GenerateFiles(ctx, files, generator.Options{
		ABI:           a.config.ABI(),
		LenientFormat: a.config.LenientFormat,
	})
}

func (a *App) write(ctx context.Context, model *generator.Artifact) error {
	content, err := emit.RenderString(model, emit.Info{
		FileName:         filepath.Base(a.config.Output),
		GeneratorVersion: Version,
		Name:             a.config.Name,
		Version:          a.config.Version,
		Board:            a.config.Board,
		MCU:              a.config.MCU,
		User:             a.buildUser(),
		Date:             a.buildDate(),
	})
	if err != nil {
		return err
	}

	res, err := artifact.Write(ctx, a.config.Output, []byte(content), a.config.Check)
	if err != nil {
		return err
	}
	a.logger.Debug("Artifact handled.", "changed", res.Changed, "check", a.config.Check)
	return nil
}
