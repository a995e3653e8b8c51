package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/shelldock/internal/core/config"
)

// ConfigCheck reports configuration errors and warnings.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	if c.cfg == nil {
		result.fail("Config loaded", "configuration not loaded")
		return result
	}

	for _, fe := range fieldErrors(c.cfg.ValidateDeep(c.path)) {
		result.fail(fe.Field, fe.Err.Error())
	}

	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		result.warn(label, w.Message)
	}

	if len(result.Items) == 0 {
		result.pass("Config valid", c.cfg.Shell.Path+" via "+c.cfg.Shell.Backend)
	}
	return result
}

// fieldErrors flattens err into field errors, labelling anything that is not
// a criterio.FieldErrors as "validation".
func fieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fes criterio.FieldErrors
	if !errors.As(err, &fes) {
		return criterio.FieldErrors{{Field: "validation", Err: err}}
	}
	out := make(criterio.FieldErrors, 0, len(fes))
	for _, fe := range fes {
		if fe.Field == "" {
			fe.Field = "validation"
		}
		out = append(out, fe)
	}
	return out
}
