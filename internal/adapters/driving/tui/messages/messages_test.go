package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewConvert, "convert"},
		{ViewHistory, "history"},
		{ViewRecord, "record"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	views := []ViewType{ViewMenu, ViewConvert, ViewHistory, ViewRecord, ViewSettings, ViewHelp}

	seen := make(map[string]bool)
	for _, v := range views {
		assert.False(t, seen[v.String()], "duplicate view name %s", v)
		seen[v.String()] = true
	}
}
