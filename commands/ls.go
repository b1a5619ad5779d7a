package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	fcolor "github.com/fatih/color"
	"github.com/josephlewis42/cmdshell/core/shellctx"
	"github.com/spf13/afero"
)

const dirUse = "DIR [-a] [-l] [-C] [-H] [DIRECTORY...]"

// Dir implements the DIR built-in, listing the contents of directories.
func Dir(ctx *shellctx.Context, args []string) Result {
	cmd := &SimpleCommand{
		Use:   dirUse,
		Short: "List files and directories.",
	}

	listAll := cmd.Flags().BoolLong("all", 'a', "don't ignore entries starting with .")
	longListing := cmd.Flags().Bool('l', "use a long listing format")
	columns := cmd.Flags().Bool('C', "list entries by columns")
	humanSize := cmd.Flags().Bool('H', "print human readable sizes")

	return cmd.Run(args, func() Result {
		color := NewColorPrinter(ctx)

		directories := cmd.Args()
		if len(directories) == 0 {
			directories = []string{"."}
		}
		showDirectoryNames := len(directories) > 1

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		var out strings.Builder
		for i, directory := range directories {
			paths, err := readDir(ctx, ctx.Resolve(directory), *listAll)
			if err != nil {
				res := FromError(err)
				res.Stdout = out.String()
				return res
			}

			if showDirectoryNames {
				if i > 0 {
					fmt.Fprintln(&out)
				}
				fmt.Fprintf(&out, "%s:\n", directory)
			}

			switch {
			case *longListing:
				tw := tabwriter.NewWriter(&out, 0, 0, 1, ' ', 0)
				for _, f := range paths {
					modTime := f.ModTime().Format("2006-01-02 15:04")
					kind := ""
					if f.IsDir() {
						kind = "<DIR>"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						f.Mode().String(),
						modTime,
						kind,
						sizeFmt(f.Size()),
						color.Sprintf(Dircolor(ctx, f), "%s", f.Name()))
				}
				tw.Flush()

			case *columns:
				writeColumns(&out, color, ctx, paths, ctx.TerminalWidth())

			default:
				for _, f := range paths {
					fmt.Fprintln(&out, color.Sprintf(Dircolor(ctx, f), "%s", f.Name()))
				}
			}
		}

		return Ok(out.String())
	})
}

func readDir(ctx *shellctx.Context, dir string, listAll bool) ([]fs.FileInfo, error) {
	info, err := ctx.Fs().Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []fs.FileInfo{info}, nil
	}

	allPaths, err := afero.ReadDir(ctx.Fs(), dir)
	if err != nil {
		return nil, err
	}

	var paths []fs.FileInfo
	for _, path := range allPaths {
		if !listAll && strings.HasPrefix(path.Name(), ".") {
			continue
		}
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i int, j int) bool {
		return paths[i].Name() < paths[j].Name()
	})
	return paths, nil
}

func writeColumns(out *strings.Builder, color ColorPrinter, ctx *shellctx.Context, paths []fs.FileInfo, screenWidth int) {
	if len(paths) == 0 {
		return
	}

	colWidths := columnize(paths, screenWidth)
	cols := len(colWidths)
	rows := len(paths) / cols
	if len(paths)%cols > 0 {
		rows++
	}

	for row := 0; row < rows; row++ {
		var line strings.Builder
		for col, width := range colWidths {
			index := (col * rows) + row
			if index >= len(paths) {
				break
			}
			// Add padding if there was a column before this.
			if col > 0 {
				line.WriteString("  ")
			}
			entry := paths[index]
			name := entry.Name()
			line.WriteString(color.Sprintf(Dircolor(ctx, entry), "%s", name))
			if pad := width - len(name); pad > 0 && index+rows < len(paths) {
				line.WriteString(strings.Repeat(" ", pad))
			}
		}
		out.WriteString(line.String())
		out.WriteString("\n")
	}
}

type dirColorTest struct {
	color *fcolor.Color
	test  func(ctx *shellctx.Context, fileInfo os.FileInfo) bool
}

var archiveExtensions = map[string]bool{
	".tar": true,
	".tgz": true,
	".zip": true,
	".gz":  true,
	".bz2": true,
	".7z":  true,
	".jar": true,
	".rar": true,
}

// Color listing comes from: https://askubuntu.com/a/884513
var dircolors = []dirColorTest{
	// Directories are bold blue.
	{color: ColorBoldBlue, test: func(_ *shellctx.Context, fi os.FileInfo) bool {
		return fi.IsDir()
	}},
	// Symlinks are bold cyan.
	{color: ColorBoldCyan, test: func(_ *shellctx.Context, fi os.FileInfo) bool {
		return fi.Mode()&fs.ModeSymlink > 0
	}},
	// Yellow with black background pipe, block device, char device.
	{color: fcolor.New(fcolor.FgYellow, fcolor.BgBlack, fcolor.Bold), test: func(_ *shellctx.Context, fi os.FileInfo) bool {
		return fi.Mode()&(fs.ModeDevice|fs.ModeNamedPipe|fs.ModeSocket|fs.ModeCharDevice) > 0
	}},
	// Executables are bold green.
	{color: ColorBoldGreen, test: func(ctx *shellctx.Context, fi os.FileInfo) bool {
		return ctx.IsExecutable(fi)
	}},
	// Archives are bold red.
	{color: ColorBoldRed, test: func(_ *shellctx.Context, fi os.FileInfo) bool {
		return archiveExtensions[strings.ToLower(filepath.Ext(fi.Name()))]
	}},
}

// Dircolor picks the listing color for a file.
func Dircolor(ctx *shellctx.Context, fileInfo os.FileInfo) *fcolor.Color {
	for _, dc := range dircolors {
		if dc.test(ctx, fileInfo) {
			return dc.color
		}
	}

	// Anything else defaults to white.
	return fcolor.New(fcolor.FgHiWhite)
}

func columnize(paths []fs.FileInfo, screenWidth int) []int {
	numFiles := len(paths)
	if numFiles == 0 {
		return []int{0}
	}

	const colPadding = 2

	// Size of the display of the file name, actual length may vary if there are
	// escape sequences to format it.
	displayLengths := make([]int, len(paths))
	for i, p := range paths {
		displayLengths[i] = len(p.Name())
	}

	// Start with maximum number of columns and work down until all the data fits.
	// 3 is the minimum column width, 1 char filename + 2 padding.
	columns := screenWidth / (1 + colPadding)
	if columns > len(paths) {
		columns = len(paths)
	}
	if columns < 1 {
		columns = 1
	}

	var maximums []int // Holds maximum size of a name in the column.
	for ; columns >= 1; columns-- {
		rows := numFiles / columns
		if numFiles%columns > 0 {
			rows++
		}
		usedColumns := numFiles / rows
		if numFiles%rows > 0 {
			usedColumns++
		}

		maximums = make([]int, usedColumns)
		for i, nameLen := range displayLengths {
			if nameLen > maximums[i/rows] {
				maximums[i/rows] = nameLen
			}
		}

		total := (usedColumns - 1) * colPadding
		for _, m := range maximums {
			total += m
		}
		if total <= screenWidth {
			return maximums
		}
	}

	return maximums
}
