package output

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPanel_LevelPrefixes(t *testing.T) {
	p := NewPanel(0)

	p.AppendInfo("started")
	p.AppendError("boom")
	p.AppendDebug("detail")

	assert.Equal(t, "[INFO] started\n[ERROR] boom\n[DEBUG] detail", p.Text())
}

func TestPanel_WriteHoldsPartialLines(t *testing.T) {
	p := NewPanel(0)

	_, _ = p.Write([]byte("par"))
	assert.Empty(t, p.Text())

	_, _ = p.Write([]byte("tial\nnext\n"))
	assert.Equal(t, "partial\nnext", p.Text())
}

func TestPanel_MaxLines(t *testing.T) {
	p := NewPanel(2)

	p.AppendText("a\nb\nc")

	assert.Equal(t, "b\nc", p.Text())
}

func TestPanel_Clear(t *testing.T) {
	p := NewPanel(0)
	p.AppendText("one\ntwo")
	_, _ = p.Write([]byte("partial"))
	v := p.Version()

	p.Clear()
	assert.Empty(t, p.Text())
	assert.Greater(t, p.Version(), v)

	_, _ = p.Write([]byte("fresh\n"))
	assert.Equal(t, "fresh", p.Text())
}

func TestLogWriter_FormatsLevels(t *testing.T) {
	p := NewPanel(0)
	logger := zerolog.New(LogWriter(p)).With().Timestamp().Logger()

	logger.Info().Str("component", "terminal").Msg("terminal connected")
	logger.Error().Msg("spawn failed")

	text := p.Text()
	assert.Contains(t, text, "[INFO] terminal connected")
	assert.Contains(t, text, "component=terminal")
	assert.Contains(t, text, "[ERROR] spawn failed")
	assert.NotContains(t, text, "time=")
}
