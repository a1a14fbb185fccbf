package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

func viewTree(t *testing.T) *Tree {
	t.Helper()

	return build(t,
		m.GroupDefinition{Name: "Boot", Description: "boot options", Expanded: true, Options: []m.OptionDefinition{
			{Name: "quiet", Description: "quiet"},
			{Name: "data", Description: "DATA=", Editable: true, Default: strPtr("data.img")},
		}},
		m.GroupDefinition{Name: "Base", Immutable: true, Options: bare("core")},
		m.GroupDefinition{Name: "Label", Noncheckable: true, Options: bare("x")},
	)
}

func TestHeaderData(t *testing.T) {
	assert.Equal(t, 3, ColumnCount())
	assert.Equal(t, "Name", HeaderData(ColumnName))
	assert.Equal(t, "Description", HeaderData(ColumnDescription))
	assert.Equal(t, "Input (Optional)", HeaderData(ColumnInput))
}

func TestTree_RowCountAndIndex(t *testing.T) {
	empty := NewTree()
	assert.Equal(t, 0, empty.RowCount(nil))
	assert.Nil(t, empty.Index(0, nil))

	tree := viewTree(t)
	assert.Equal(t, 3, tree.RowCount(nil))

	boot := tree.Index(0, nil)
	assert.Equal(t, "Boot", boot.Name())
	assert.Equal(t, 2, tree.RowCount(boot))
	assert.Equal(t, "data", tree.Index(1, boot).OptionName())
	assert.Nil(t, tree.Index(5, boot))
}

func TestTree_Data(t *testing.T) {
	tree := viewTree(t)
	boot := find(t, tree, "Boot")
	data := find(t, tree, "data")
	core := find(t, tree, "core")

	tests := []struct {
		name   string
		node   *Node
		column Column
		role   Role
		want   any
		ok     bool
	}{
		{"group name", boot, ColumnName, RoleDisplay, "Boot", true},
		{"group description", boot, ColumnDescription, RoleDisplay, "boot options", true},
		{"group check state", boot, ColumnName, RoleCheckState, m.Unchecked, true},
		{"check state only on name", boot, ColumnDescription, RoleCheckState, nil, false},
		{"group expand", boot, ColumnName, RoleExpand, true, true},
		{"group not editable", boot, ColumnInput, RoleEdit, nil, false},
		{"option name", data, ColumnName, RoleDisplay, "data", true},
		{"option input", data, ColumnInput, RoleDisplay, "data.img", true},
		{"option edit", data, ColumnInput, RoleEdit, "data.img", true},
		{"immutable has no check state", core, ColumnName, RoleCheckState, nil, false},
		{"unknown role", data, ColumnName, Role(99), nil, false},
		{"unknown column", data, Column(7), RoleDisplay, nil, false},
		{"nil node", nil, ColumnName, RoleDisplay, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tree.Data(tt.node, tt.column, tt.role)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTree_SetData(t *testing.T) {
	tree := viewTree(t)
	boot := find(t, tree, "Boot")
	quiet := find(t, tree, "quiet")
	data := find(t, tree, "data")

	var reports []bool
	tree.SetReadyCallback(func(ready bool) { reports = append(reports, ready) })

	assert.True(t, tree.SetData(quiet, ColumnName, m.Checked, RoleCheckState))
	assert.Equal(t, m.Checked, quiet.State())
	assert.Equal(t, m.PartiallyChecked, boot.State())
	assert.Equal(t, []bool{true}, reports)

	assert.False(t, tree.SetData(quiet, ColumnName, true, RoleCheckState), "only check states are accepted")

	assert.True(t, tree.SetData(data, ColumnInput, "android.img", RoleEdit))
	assert.Equal(t, "DATA=android.img", data.Operation())

	assert.False(t, tree.SetData(data, ColumnDescription, "x", RoleEdit))
	assert.False(t, tree.SetData(quiet, ColumnInput, "x", RoleEdit))
	assert.False(t, tree.SetData(data, ColumnInput, 3, RoleEdit))
	assert.False(t, tree.SetData(data, ColumnInput, "x", RoleDisplay))
	assert.False(t, NewTree().SetData(data, ColumnInput, "x", RoleEdit))
}

func TestTree_SetDataPartialOption(t *testing.T) {
	tree := viewTree(t)
	boot := find(t, tree, "Boot")
	quiet := find(t, tree, "quiet")
	data := find(t, tree, "data")

	assert.True(t, tree.SetData(data, ColumnName, m.PartiallyChecked, RoleCheckState))
	assert.Equal(t, m.Checked, data.State(), "an option takes a partial check as checked")
	assert.Equal(t, m.PartiallyChecked, boot.State())

	quiet.SetSelected(m.PartiallyChecked)
	assert.Equal(t, m.Checked, quiet.State())
	assert.Equal(t, m.Checked, boot.State())
}

func TestTree_Flags(t *testing.T) {
	tree := viewTree(t)

	tests := []struct {
		name   string
		node   string
		column Column
		want   ItemFlags
	}{
		{"group name", "Boot", ColumnName, FlagCheckable},
		{"option name", "quiet", ColumnName, FlagCheckable},
		{"editable input", "data", ColumnInput, FlagEditable},
		{"plain input", "quiet", ColumnInput, FlagNone},
		{"description", "data", ColumnDescription, FlagNone},
		{"immutable group", "Base", ColumnName, FlagNone},
		{"immutable option", "core", ColumnName, FlagNone},
		{"noncheckable group", "Label", ColumnName, FlagNone},
		{"option of noncheckable group", "x", ColumnName, FlagCheckable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tree.Flags(find(t, tree, tt.node), tt.column)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, FlagCheckable.Has(FlagCheckable))
	assert.False(t, FlagCheckable.Has(FlagEditable))
	assert.Equal(t, ItemFlags(1), FlagCheckable)
	assert.Equal(t, ItemFlags(2), FlagEditable)
	assert.True(t, (FlagCheckable | FlagEditable).Has(FlagEditable))
}
