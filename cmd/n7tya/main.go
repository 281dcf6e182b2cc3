// Command n7tya is the CLI for the n7tya language: it runs scripts,
// scaffolds and checks projects, formats sources, and hosts a REPL.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	n7tya "github.com/n7tya/n7tya-lang"
)

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

type cli struct {
	Run     runCmd     `cmd:"" help:"Run a script, or the current project's entry point."`
	Build   buildCmd   `cmd:"" help:"Type-check every source file in the project."`
	Test    testCmd    `cmd:"" help:"Run test_*.n7t files under tests/ and src/."`
	New     newCmd     `cmd:"" help:"Scaffold a new project."`
	Fmt     fmtCmd     `cmd:"" help:"Rewrite source files in canonical form."`
	Check   checkCmd   `cmd:"" help:"Type-check a single file."`
	Repl    replCmd    `cmd:"" help:"Start an interactive session."`
	Version versionCmd `cmd:"" help:"Print the interpreter version."`
}

func main() {
	var c cli
	ktx := kong.Parse(&c,
		kong.Name("n7tya"),
		kong.Description("The n7tya language."),
		kong.UsageOnError(),
	)
	if err := ktx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error:")+" "+err.Error())
		os.Exit(1)
	}
}

type runCmd struct {
	Path string `arg:"" optional:"" help:"Script to run; defaults to the project entry point."`
}

func (c *runCmd) Run() error {
	path := c.Path
	manifest, err := n7tya.LoadManifest(".")
	if err != nil {
		return err
	}
	if path == "" {
		path = manifest.EntryFile()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ip := n7tya.NewInterp()
	ip.ApplyManifest(manifest)
	if err := ip.InterpretSource(string(src)); err != nil {
		return n7tya.WrapErrorWithName(err, path, string(src))
	}
	return nil
}

type buildCmd struct{}

func (c *buildCmd) Run() error {
	files, err := projectSources()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .n7t files found under src/")
	}
	problems := 0
	for _, path := range files {
		diags, err := checkFile(path)
		if err != nil {
			return err
		}
		for _, d := range diags {
			fmt.Println(warnStyle.Render("warning:") + " " + path + ": " + d)
			problems++
		}
	}
	if problems == 0 {
		fmt.Println(okStyle.Render("Build OK") + dimStyle.Render(fmt.Sprintf(" (%d files)", len(files))))
	} else {
		fmt.Printf("%d warnings in %d files\n", problems, len(files))
	}
	return nil
}

type testCmd struct{}

func (c *testCmd) Run() error {
	var files []string
	for _, dir := range []string{"tests", "src"} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".n7t") {
				files = append(files, filepath.Join(dir, name))
			}
		}
	}
	if len(files) == 0 {
		fmt.Println("no test files found")
		return nil
	}

	passed, failed := 0, 0
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := n7tya.Interpret(string(src)); err != nil {
			failed++
			fmt.Println(errStyle.Render("FAIL") + " " + path)
			fmt.Println(dimStyle.Render("     " + err.Error()))
		} else {
			passed++
			fmt.Println(okStyle.Render("PASS") + " " + path)
		}
	}
	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("%d test files failed", failed)
	}
	return nil
}

type newCmd struct {
	Name string `arg:"" help:"Project name."`
}

func (c *newCmd) Run() error {
	if err := n7tya.CreateProject(c.Name); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("created") + " " + c.Name + "/")
	return nil
}

type fmtCmd struct {
	Files []string `arg:"" optional:"" help:"Files to format; defaults to project sources."`
}

func (c *fmtCmd) Run() error {
	files := c.Files
	if len(files) == 0 {
		var err error
		files, err = projectSources()
		if err != nil {
			return err
		}
	}
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted := n7tya.FormatSource(string(src))
		if formatted == string(src) {
			continue
		}
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return err
		}
		fmt.Println("formatted " + path)
	}
	return nil
}

type checkCmd struct {
	Path string `arg:"" help:"File to check."`
}

func (c *checkCmd) Run() error {
	diags, err := checkFile(c.Path)
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		fmt.Println(okStyle.Render("OK") + " " + c.Path)
		return nil
	}
	for _, d := range diags {
		fmt.Println(warnStyle.Render("warning:") + " " + d)
	}
	return nil
}

type versionCmd struct{}

func (c *versionCmd) Run() error {
	fmt.Println("n7tya " + n7tya.Version)
	return nil
}

type replCmd struct{}

func (c *replCmd) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".n7tya_history")
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyFile == "" {
			return
		}
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("n7tya " + n7tya.Version + " (exit with Ctrl-D)")
	ip := n7tya.NewInterp()
	for {
		input, err := line.Prompt(">>> ")
		if err != nil {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		// Block openers keep reading indented lines until a blank one.
		if opensBlock(input) {
			var block strings.Builder
			block.WriteString(input)
			block.WriteString("\n")
			for {
				more, err := line.Prompt("... ")
				if err != nil || strings.TrimSpace(more) == "" {
					break
				}
				block.WriteString(more)
				block.WriteString("\n")
			}
			input = block.String()
		}

		if err := ip.InterpretSource(input); err != nil {
			fmt.Println(errStyle.Render("error:") + " " + err.Error())
		}
	}
}

func opensBlock(input string) bool {
	trimmed := strings.TrimSpace(input)
	for _, kw := range []string{"def ", "class ", "component ", "server ", "if ", "elif ", "while ", "for ", "match ", "else"} {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return false
}

func projectSources() ([]string, error) {
	var files []string
	err := filepath.WalkDir("src", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".n7t") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}

func checkFile(path string) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tokens := n7tya.NewLexer(string(src)).Scan()
	prog, err := n7tya.NewParser(tokens).Parse()
	if err != nil {
		return nil, n7tya.WrapErrorWithName(err, path, string(src))
	}
	return n7tya.NewChecker().Check(prog), nil
}
