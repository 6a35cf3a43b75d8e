package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUIMessage(t *testing.T) {
	assert.Equal(t, "Processed: 3", GetUIMessage("SummaryTotal", 3))
	assert.Equal(t, "Summary", GetUIMessage("SummaryTitle"))
	assert.Equal(t, "NoSuchKey", GetUIMessage("NoSuchKey"))
}
