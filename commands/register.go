package commands

// RegisterAll adds every built-in and its aliases to registry, in the order
// HELP lists them.
func RegisterAll(registry *Registry) {
	for _, b := range []struct {
		names []string
		use   string
		short string
		main  Builtin
	}{
		{[]string{"CHDIR", "CD"}, chdirUse, "Change current directories", BuiltinFunc(Chdir)},
		{[]string{"CLEAR", "CLS"}, "CLEAR", "Clear the screen", BuiltinFunc(Clear)},
		{[]string{"COPY"}, copyUse, "Copy files", BuiltinFunc(Copy)},
		{[]string{"DELETE", "DEL", "ERASE"}, deleteUse, "Removes the file", BuiltinFunc(Delete)},
		{[]string{"DIR"}, dirUse, "List files and directories", BuiltinFunc(Dir)},
		{[]string{"EXIT"}, "EXIT", "Exit from the shell", BuiltinFunc(ExitShell)},
		{[]string{"HELP"}, "HELP [command]", "Show help", Help(registry)},
		{[]string{"MCD"}, mcdUse, "Create and change to the new directory", BuiltinFunc(Mcd)},
		{[]string{"MKDIR", "MD"}, mkdirUse, "Create Directories", BuiltinFunc(Mkdir)},
		{[]string{"NEW"}, newUse, "Create a file", BuiltinFunc(NewFile)},
		{[]string{"PAUSE"}, "PAUSE", "Delays the shell until you press any keys", BuiltinFunc(Pause)},
		{[]string{"PRINT"}, "PRINT [text...]", "Display messages", BuiltinFunc(Print)},
		{[]string{"RENAME", "REN"}, renameUse, "Rename or move a file or directory", BuiltinFunc(Rename)},
		{[]string{"RMDIR", "RD"}, rmdirUse, "Remove Directories", BuiltinFunc(Rmdir)},
		{[]string{"SHOW"}, showUse, "Outputs the file", BuiltinFunc(Show)},
		{[]string{"VERSION", "VER"}, "VERSION", "Shell version", BuiltinFunc(VersionInfo)},
		{[]string{"WHEREAMI"}, "WHEREAMI", "Show the current directories", BuiltinFunc(Whereami)},
	} {
		if _, err := registry.Register(b.names[0], b.use, b.short, b.main); err != nil {
			panic(err)
		}
		for _, alias := range b.names[1:] {
			if err := registry.Alias(alias, b.names[0]); err != nil {
				panic(err)
			}
		}
	}
}
