package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/token"
)

func TestBaseRule_Defaults(t *testing.T) {
	r := NewBaseRule("PS007", "concat-spacing", "spaces around dots", []string{"operators"}, true, token.Concat)

	assert.Equal(t, "PS007", r.ID())
	assert.Equal(t, "concat-spacing", r.Name())
	assert.Equal(t, "spaces around dots", r.Description())
	assert.True(t, r.DefaultEnabled())
	assert.Equal(t, config.SeverityWarning, r.DefaultSeverity())
	assert.Equal(t, []string{"operators"}, r.Tags())
	assert.True(t, r.CanFix())
	assert.Equal(t, []token.Kind{token.Concat}, r.Kinds())

	_, ok := r.Check(nil, 0)
	assert.False(t, ok)
	assert.NoError(t, r.Fix(nil, 0, nil))
}
