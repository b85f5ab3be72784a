package cli

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestGetIndexConfig(t *testing.T) {
	cfg := getIndexConfig()
	gt.Array(t, cfg.Collections).Length(2)

	byName := make(map[string]fireconf.Collection)
	for _, col := range cfg.Collections {
		byName[col.Name] = col
	}

	t.Run("sessions index matches ListByUser query", func(t *testing.T) {
		col, ok := byName["sessions"]
		gt.Bool(t, ok).True()
		gt.Array(t, col.Indexes).Length(1)

		fields := col.Indexes[0].Fields
		gt.Array(t, fields).Length(2)
		gt.Value(t, fields[0].Path).Equal("user_id")
		gt.Value(t, fields[0].Order).Equal(fireconf.OrderAscending)
		gt.Value(t, fields[1].Path).Equal("updated_at")
		gt.Value(t, fields[1].Order).Equal(fireconf.OrderDescending)
	})

	t.Run("screenshots index matches ListBySession query", func(t *testing.T) {
		col, ok := byName["screenshots"]
		gt.Bool(t, ok).True()
		gt.Array(t, col.Indexes).Length(1)

		fields := col.Indexes[0].Fields
		gt.Array(t, fields).Length(2)
		gt.Value(t, fields[0].Path).Equal("session_id")
		gt.Value(t, fields[0].Order).Equal(fireconf.OrderAscending)
		gt.Value(t, fields[1].Path).Equal("created_at")
		gt.Value(t, fields[1].Order).Equal(fireconf.OrderAscending)
	})
}
