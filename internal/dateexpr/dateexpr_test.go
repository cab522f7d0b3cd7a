package dateexpr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ref(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2024-01-15")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestEvalNoOffset(t *testing.T) {
	v, ok := Eval("yyyy-MM-dd", ref(t))
	assert.True(t, ok)
	assert.Equal(t, "2024-01-15", v)
}

func TestEvalNegativeOffset(t *testing.T) {
	v, ok := Eval("yyyyMMdd-1", ref(t))
	assert.True(t, ok)
	assert.Equal(t, "20240114", v)
}

func TestEvalPositiveOffset(t *testing.T) {
	v, ok := Eval("yyyy-MM-dd+7", ref(t))
	assert.True(t, ok)
	assert.Equal(t, "2024-01-22", v)
}

func TestEvalTimeComponents(t *testing.T) {
	today := time.Date(2024, 1, 15, 9, 5, 3, 0, time.UTC)
	v, ok := Eval("HH:mm:ss", today)
	assert.True(t, ok)
	assert.Equal(t, "09:05:03", v)
}

func TestEvalMalformedOffsetLeftLiteral(t *testing.T) {
	_, ok := Eval("yyyy-MM-dd+", ref(t))
	assert.False(t, ok)

	_, ok = Eval("yyyy-MM-dd+abc", ref(t))
	assert.False(t, ok)
}

func TestEvalNotADatePattern(t *testing.T) {
	_, ok := Eval("some_param", ref(t))
	assert.False(t, ok)
}

func TestIsCandidate(t *testing.T) {
	assert.True(t, IsCandidate("yyyy/MM/dd"))
	assert.False(t, IsCandidate("db_name"))
}

func TestFormatStrftime(t *testing.T) {
	v, err := FormatStrftime(ref(t), "%Y%m%d")
	assert.NoError(t, err)
	assert.Equal(t, "20240115", v)
}

func TestCanonicalAndNoDash(t *testing.T) {
	assert.Equal(t, "2024-01-15", Canonical(ref(t)))
	assert.Equal(t, "20240115", NoDash(ref(t)))
}
