package toast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushAndExpire(t *testing.T) {
	m := New()
	assert.False(t, m.Active())

	cmd := m.Error("boom")
	assert.NotNil(t, cmd)
	assert.True(t, m.Active())
	assert.Contains(t, m.View(), "boom")

	m.Update(expireMsg{seq: m.seq})
	assert.False(t, m.Active())
	assert.Empty(t, m.View())
}

func TestReplacementOutlivesStaleTimer(t *testing.T) {
	m := New()
	_ = m.Info("first")
	staleSeq := m.seq
	_ = m.Success("second")

	// the first banner's timer fires after it was replaced
	m.Update(expireMsg{seq: staleSeq})
	assert.True(t, m.Active())
	assert.Contains(t, m.View(), "second")
}

func TestLevelStyling(t *testing.T) {
	m := New()
	_ = m.Push(Info, "heads up")
	assert.Contains(t, m.View(), "heads up")
	_ = m.Push(Success, "saved")
	assert.Contains(t, m.View(), "saved")
}
