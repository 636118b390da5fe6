package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/vi/trait-enumizer/internal/errors"
	"github.com/vi/trait-enumizer/internal/parser"
)

// Inspect prints the analyzed model of every annotated type in file, or
// with strip the file without its directives.
func Inspect(w io.Writer, file string, strip bool, defaultReturnVal string) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return errors.FileSystem("read", file, err)
	}

	if strip {
		out, err := parser.Strip(file, source)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	p := parser.NewParser()
	p.SetDefaultReturnVal(defaultReturnVal)
	result, err := p.ParseSource(file, string(source))
	if err != nil {
		return err
	}

	if len(result.Interfaces) == 0 {
		_, err = fmt.Fprintf(w, "no annotated types in %s\n", file)
		return err
	}

	for _, iface := range result.Interfaces {
		cfg := iface.Config
		cfg.ResolveDefaults(iface.Name)
		if _, err := io.WriteString(w, parser.Describe(iface)); err != nil {
			return err
		}
		fmt.Fprintf(w, "  enum %s (%s)\n", cfg.EnumName, cfg.Access)
		if cfg.ReturnVal != "" {
			fmt.Fprintf(w, "  returnval %s\n", cfg.ReturnVal)
		}
		for _, req := range cfg.CallFns {
			fmt.Fprintf(w, "  call_fn %s [%s]\n", req.Name, req.Convention)
		}
		for _, req := range cfg.Proxies {
			fmt.Fprintf(w, "  proxy %s [%s] %s\n", req.Name, req.Convention, req.Adapter)
		}
	}
	return nil
}
