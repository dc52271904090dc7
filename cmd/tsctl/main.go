// Command tsctl inspects and converts Qt Linguist .ts catalogs.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gookit/color"

	"l10nbot/internal/application"
	"l10nbot/internal/domain/entities"
	"l10nbot/internal/infrastructure/i18n"
	"l10nbot/internal/infrastructure/tsfile"
)

const usage = `usage: tsctl <command> -f file.ts [flags]

commands:
  lookup   -context C -source S [-n N] [-locale L]   resolve one source string
  check                                             report catalog issues
  stats                                             translation progress per context
  fmt      [-w]                                     re-encode in lupdate layout
  export   [-o dir]                                 write the go-i18n TOML file
`

// errBlocking makes check exit non-zero.
var errBlocking = errors.New("catalog has blocking issues")

// usageError marks bad invocations, which exit with 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if os.Getenv("NO_COLOR") != "" {
		color.Disable()
	}
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var cmd func([]string, io.Writer) error
	switch args[0] {
	case "lookup":
		cmd = lookupCmd
	case "check":
		cmd = checkCmd
	case "stats":
		cmd = statsCmd
	case "fmt":
		cmd = fmtCmd
	case "export":
		cmd = exportCmd
	default:
		fmt.Fprintf(stderr, "tsctl: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(args[1:], stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "%s%v\n\n%s", color.Red.Sprint("tsctl: "), ue, usage)
			return 2
		}
		fmt.Fprintln(stderr, color.Red.Sprint("tsctl: ")+err.Error())
		return 1
	}
	return 0
}

func newFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("f", "", "catalog file (.ts)")
	return fs, file
}

func parse(fs *flag.FlagSet, args []string, file *string) (*entities.Catalog, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, usageError{err}
	}
	if *file == "" {
		return nil, usageError{errors.New("-f is required")}
	}
	return tsfile.Load(*file)
}

func lookupCmd(args []string, out io.Writer) error {
	fs, file := newFlags("lookup")
	contextName := fs.String("context", "", "context name")
	source := fs.String("source", "", "source text")
	n := fs.Int("n", -1, "count for numerus messages")
	locale := fs.String("locale", "", "resolve through go-i18n for this locale")
	cat, err := parse(fs, args, file)
	if err != nil {
		return err
	}
	if *contextName == "" || *source == "" {
		return usageError{errors.New("-context and -source are required")}
	}

	var text string
	switch {
	case *locale != "":
		b, err := i18n.NewCatalogBundle(cat)
		if err != nil {
			return err
		}
		if *n >= 0 {
			text = b.TrN(*locale, *contextName, *source, *n)
		} else {
			text = b.Tr(*locale, *contextName, *source)
		}
	case *n >= 0:
		text = cat.LookupPlural(*contextName, *source, *n)
	default:
		text = cat.Lookup(*contextName, *source)
	}
	fmt.Fprintln(out, text)
	return nil
}

func checkCmd(args []string, out io.Writer) error {
	fs, file := newFlags("check")
	cat, err := parse(fs, args, file)
	if err != nil {
		return err
	}

	issues := application.CheckCatalog(cat)
	blocking := 0
	for _, i := range issues {
		label := color.Yellow.Sprint("warning")
		if i.Blocking() {
			label = color.Red.Sprint("error")
			blocking++
		}
		where := i.Context
		if i.Source != "" {
			where += fmt.Sprintf(" %q", i.Source)
		}
		fmt.Fprintf(out, "%s [%s] %s: %s\n", label, i.Kind, where, i.Detail)
	}
	if len(issues) == 0 {
		fmt.Fprintln(out, color.Green.Sprint("ok"))
	}
	if blocking > 0 {
		return fmt.Errorf("%w (%d)", errBlocking, blocking)
	}
	return nil
}

func statsCmd(args []string, out io.Writer) error {
	fs, file := newFlags("stats")
	cat, err := parse(fs, args, file)
	if err != nil {
		return err
	}

	st := application.ComputeStats(cat)
	fmt.Fprintf(out, "%s %s: %d/%d translated (%.1f%%)\n",
		color.Bold.Sprint(cat.Language), cat.Name, st.Finished, st.Total-st.Obsolete, st.Percent())
	contexts := append([]entities.ContextStats(nil), st.Contexts...)
	sort.SliceStable(contexts, func(i, j int) bool { return contexts[i].Unfinished > contexts[j].Unfinished })
	for _, c := range contexts {
		line := fmt.Sprintf("  %-24s %3d/%-3d", c.Name, c.Finished, c.Total-c.Obsolete)
		if c.Unfinished > 0 {
			line += color.Yellow.Sprintf("  %d unfinished", c.Unfinished)
		}
		if c.Obsolete > 0 {
			line += fmt.Sprintf("  %d obsolete", c.Obsolete)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func fmtCmd(args []string, out io.Writer) error {
	fs, file := newFlags("fmt")
	write := fs.Bool("w", false, "write result to the file instead of stdout")
	cat, err := parse(fs, args, file)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tsfile.Encode(&buf, cat); err != nil {
		return err
	}
	if !*write {
		_, err := out.Write(buf.Bytes())
		return err
	}
	old, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	if bytes.Equal(old, buf.Bytes()) {
		return nil
	}
	fmt.Fprintln(out, *file)
	return os.WriteFile(*file, buf.Bytes(), 0o644)
}

func exportCmd(args []string, out io.Writer) error {
	fs, file := newFlags("export")
	dir := fs.String("o", "", "directory to write <name>.<lang>.toml into (stdout when empty)")
	cat, err := parse(fs, args, file)
	if err != nil {
		return err
	}

	data, err := i18n.ExportTOML(cat)
	if err != nil {
		return err
	}
	if *dir == "" {
		_, err := out.Write(data)
		return err
	}
	path := filepath.Join(*dir, i18n.ExportFileName(cat))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}
