package theme

import (
	"testing"

	"github.com/dori/tasknote/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "light", Resolve(model.ThemeLight, true).Name)
	assert.Equal(t, "dark", Resolve(model.ThemeDark, false).Name)
	assert.Equal(t, "dark", Resolve(model.ThemeSystem, true).Name)
	assert.Equal(t, "light", Resolve(model.ThemeSystem, false).Name)
}

func TestApplyExplicitMode(t *testing.T) {
	defer SetTheme(Dark)

	Apply(model.ThemeLight)
	assert.Equal(t, model.ThemeLight, Current.Mode)
	assert.Equal(t, "light", Current.Theme.Name)

	Apply(model.ThemeDark)
	assert.Equal(t, "dark", Current.Theme.Name)
}

func TestColors(t *testing.T) {
	assert.Equal(t, Dark.CategoryUrgent, Dark.CategoryColor(model.CategoryUrgent))
	assert.Equal(t, Dark.CategoryMedium, Dark.CategoryColor(""))
	assert.Equal(t, Light.StatusOverdue, Light.StatusColor(model.StatusOverdue))
	assert.Equal(t, Light.StatusCompleted, Light.StatusColor(model.StatusCompleted))
}
