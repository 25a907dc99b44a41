package config

// BuiltinBoard returns the board shown when no columns are configured.
//
// The last column starts empty so items can be dropped into an empty
// container.
func BuiltinBoard() Board {
	return Board{
		Gap:        1,
		ItemHeight: 3,
		Columns: []Column{
			{Name: "Backlog", Layout: "vertical", Items: []string{"Write parser", "Add metrics", "Fix flaky test", "Update docs"}},
			{Name: "In progress", Layout: "vertical", Items: []string{"Keyboard sensor", "Auto-scroll"}},
			{Name: "Done", Layout: "vertical"},
		},
	}
}
