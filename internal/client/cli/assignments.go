package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/client/services"
	"github.com/dmitrijs2005/assignhub/internal/client/view"
	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/filex"
)

func (a *App) list(title string, load func(context.Context) ([]domain.Assignment, error)) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		items, err := load(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, title)
		return view.Assignments(a.out, items)
	}
}

func (a *App) available(ctx context.Context, args []string) error {
	return a.list("Available assignments:", a.assignments.ListAvailable)(ctx, args)
}

func (a *App) mine(ctx context.Context, args []string) error {
	return a.list("My assignments:", a.assignments.ListMine)(ctx, args)
}

func (a *App) owned(ctx context.Context, args []string) error {
	return a.list("Assignments you posted:", a.assignments.ListOwned)(ctx, args)
}

func (a *App) show(ctx context.Context, args []string) error {
	as, err := a.assignments.Get(ctx, args[0])
	if err != nil {
		return err
	}
	return view.Assignment(a.out, as)
}

func (a *App) accept(ctx context.Context, args []string) error {
	as, err := a.assignments.Get(ctx, args[0])
	if err != nil {
		return err
	}
	updated, err := a.assignments.Accept(ctx, as)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Assignment accepted.")
	return view.Assignment(a.out, updated)
}

// openFiles opens every path for upload. The returned close func must be
// called even when an error is returned.
func openFiles(paths []string) ([]domain.FileUpload, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	files := make([]domain.FileUpload, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, closeAll, fmt.Errorf("open %s: %w", p, err)
		}
		opened = append(opened, f)
		files = append(files, domain.FileUpload{Filename: filepath.Base(p), Content: f})
	}
	return files, closeAll, nil
}

func (a *App) submit(ctx context.Context, args []string) error {
	as, err := a.assignments.Get(ctx, args[0])
	if err != nil {
		return err
	}

	files, closeFiles, err := openFiles(args[1:])
	defer closeFiles()
	if err != nil {
		return err
	}

	updated, err := a.assignments.SubmitWork(ctx, as, files)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Work submitted for review.")
	return view.Assignment(a.out, updated)
}

func (a *App) review(ctx context.Context, args []string) error {
	as, err := a.assignments.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if err := view.Assignment(a.out, as); err != nil {
		return err
	}

	approved, err := GetYesNo(a.reader, "Approve the submitted work?", a.out)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Review notes", a.out)
	if err != nil {
		return err
	}

	updated, err := a.assignments.Review(ctx, as, domain.Review{Approved: approved, Notes: notes})
	if err != nil {
		return err
	}
	if approved {
		fmt.Fprintln(a.out, "Work approved. The assignment is ready for payout.")
	} else {
		fmt.Fprintln(a.out, "Work sent back to the helper.")
	}
	return view.Assignment(a.out, updated)
}

// create walks through the new assignment form, offering the matcher's
// category suggestion as the default.
func (a *App) create(ctx context.Context, _ []string) error {
	u := a.auth.Current()
	if u == nil {
		return services.ErrNotSignedIn
	}

	var (
		form domain.NewAssignment
		err  error
	)
	form.OwnerID = u.ID

	if form.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if form.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	suggested, ok, err := a.assignments.SuggestCategory(ctx, form.Description)
	if err != nil {
		a.log.Debug(ctx, "no category suggestion", "error", err)
	}
	prompt := "Category"
	if ok {
		prompt = fmt.Sprintf("Category (suggested: %s, press Enter to accept)", suggested)
	}
	if form.Category, err = getSimpleText(a.reader, prompt, a.out); err != nil {
		return err
	}
	if form.Category == "" && ok {
		form.Category = suggested
	}

	complexity, err := GetChoice(a.reader, "Complexity",
		[]string{string(domain.ComplexityLow), string(domain.ComplexityMedium), string(domain.ComplexityHigh)},
		string(domain.ComplexityMedium), a.out)
	if err != nil {
		return err
	}
	form.Complexity = domain.Complexity(complexity)

	rawDeadline, err := getSimpleText(a.reader, "Deadline (YYYY-MM-DD or YYYY-MM-DD HH:MM)", a.out)
	if err != nil {
		return err
	}
	if form.Deadline, err = services.Deadline(rawDeadline, time.Local); err != nil {
		return err
	}

	if form.PaymentAmount, err = GetAmount(a.reader, "Payment amount", a.out); err != nil {
		return err
	}

	paths, err := GetList(a.reader, "Attachment paths (optional)", a.out)
	if err != nil {
		return err
	}
	files, closeFiles, err := openFiles(paths)
	defer closeFiles()
	if err != nil {
		return err
	}
	form.Files = files

	created, err := a.assignments.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Assignment created.")
	return view.Assignment(a.out, created)
}

func (a *App) suggest(ctx context.Context, _ []string) error {
	description, err := GetMultiline(a.reader, "Describe the assignment", a.out)
	if err != nil {
		return err
	}
	name, ok, err := a.assignments.SuggestCategory(ctx, description)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "No category suggestion. Try a longer description.")
		return nil
	}
	fmt.Fprintln(a.out, "Suggested category:", name)
	return nil
}

// categories prints the catalog grouped by handler type.
func (a *App) categories(ctx context.Context, _ []string) error {
	cats, err := a.assignments.Categories(ctx)
	if err != nil {
		return err
	}
	groups := cats.Group()
	for _, ht := range catalog.HandlerTypes {
		list := groups[ht]
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "%s:\n", ht.Label())
		for _, c := range list {
			fmt.Fprintf(a.out, "  - %s\n", c.Name)
		}
	}
	return nil
}

func (a *App) summarize(ctx context.Context, args []string) error {
	var (
		summary string
		err     error
	)
	if len(args) > 1 {
		summary, err = a.assignments.SummarizeDocument(ctx, args[0], args[1])
	} else {
		summary, err = a.assignments.SummarizeDescription(ctx, args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Summary:")
	fmt.Fprintln(a.out, summary)
	return nil
}

func (a *App) download(ctx context.Context, args []string) error {
	url, path := args[0], args[1]
	err := filex.WriteFile(path, func(w io.Writer) error {
		return a.assignments.Download(ctx, url, w)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved to", path)
	return nil
}
