package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/foodscan/internal/app"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/infrastructure/cli/commands"
	"github.com/doeshing/foodscan/internal/infrastructure/cli/helpers"
)

const sessionHelp = `Commands:
  <barcode> | scan <barcode>   look up a product and add it to the history
  recent [n]                   show the newest n scans
  history | list               show every scan
  remove <barcode>             drop one product from the history
  clear [-y]                   clear the history
  reviews <barcode>            show reviews for a product
  help                         show this help
  quit                         leave the session`

// session keeps the in-memory history alive across many scans.
type session struct {
	container *app.Container
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	prompter  *Prompter
}

func newSessionCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Scan interactively while keeping a recent-scan history",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			s := &session{
				container: container,
				in:        reader,
				out:       cmd.OutOrStdout(),
				errOut:    cmd.ErrOrStderr(),
				prompter:  NewPrompter(reader, cmd.OutOrStdout()),
			}
			return s.run(cmd.Context())
		},
	}
}

func (s *session) run(ctx context.Context) error {
	if s.container.ScanService == nil {
		return errors.New("scan service unavailable")
	}
	fmt.Fprintln(s.out, "foodscan session. Type a barcode, or 'help'.")
	for {
		fmt.Fprint(s.out, "> ")
		line, err := s.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if quit := s.dispatch(ctx, strings.Fields(line)); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *session) dispatch(ctx context.Context, fields []string) bool {
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
	case "scan":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: scan <barcode>")
			return false
		}
		s.scan(ctx, args[0])
	case "recent":
		s.history(ctx, "recent", args...)
	case "history", "list":
		s.history(ctx, "list", args...)
	case "remove", "rm":
		s.history(ctx, "remove", args...)
	case "clear":
		s.history(ctx, "clear", args...)
	case "reviews":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: reviews <barcode>")
			return false
		}
		s.reviews(ctx, args[0])
	default:
		if len(args) == 0 && isDigits(domain.NormalizeBarcode(cmd)) {
			s.scan(ctx, cmd)
			return false
		}
		fmt.Fprintf(s.out, "unknown command %q, type 'help'\n", cmd)
	}
	return false
}

func (s *session) scan(ctx context.Context, raw string) {
	spinner := NewSpinner(s.errOut, "looking up "+raw)
	spinner.Start()
	product, err := s.container.ScanService.Verify(ctx, raw)
	spinner.Stop()
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	helpers.RenderProduct(s.out, product)
}

// history runs one line through the history subcommands, which share this
// session's container and prompter.
func (s *session) history(ctx context.Context, sub string, args ...string) {
	cmd := commands.NewHistoryCommand(s.container, s.prompter)
	cmd.SetArgs(append([]string{sub}, args...))
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *session) reviews(ctx context.Context, barcode string) {
	if s.container.ReviewService == nil {
		fmt.Fprintln(s.out, "error: review service unavailable")
		return
	}
	overview, err := s.container.ReviewService.Overview(ctx, barcode)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	helpers.RenderReviews(s.out, overview)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
