// shell — текстовое меню поверх service: выгрузка с hh.ru, работа с файлами
// каталога и операции над загруженной коллекцией.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/service"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/catalog"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/jsonfile"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/xlsx"
)

// errQuit — пользователь выбрал выход.
var errQuit = errors.New("quit")

// Shell — интерактивный сеанс. Не потокобезопасен.
type Shell struct {
	svc         *service.Service
	files       *catalog.Catalog
	defaultFile string
	maxPages    int

	in  *bufio.Scanner
	out io.Writer
}

// New создаёт сеанс. maxPages <= 0 — значение из конфига сервиса.
func New(svc *service.Service, files *catalog.Catalog, defaultFile string, maxPages int, in io.Reader, out io.Writer) *Shell {
	if defaultFile == "" {
		defaultFile = "vacancies"
	}

	return &Shell{
		svc:         svc,
		files:       files,
		defaultFile: defaultFile,
		maxPages:    maxPages,
		in:          bufio.NewScanner(in),
		out:         out,
	}
}

// Run крутит главное меню до выхода, конца ввода или отмены ctx.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.println("Choose an action:")
		s.println("1. Fetch vacancies from hh.ru by keyword")
		s.printf("2. Inspect stored files (directory %q, formats: json, xlsx)\n", s.files.Dir())
		s.println("q. Quit")

		choice, err := s.choose("Enter 1, 2 or q to quit: ", "", "1", "2", "q")
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			err = s.fetchFlow(ctx)
		case "2":
			err = s.filesFlow(ctx)
		case "q":
			err = errQuit
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// fetchFlow запрашивает ключевое слово, пока не найдутся вакансии; пустой ввод возвращает в главное меню.
func (s *Shell) fetchFlow(ctx context.Context) error {
	for {
		keyword, err := s.prompt("Enter a keyword to search vacancies (empty to go back): ")
		if err != nil {
			return err
		}
		if keyword == "" {
			return nil
		}

		vs, report, err := s.svc.Fetch(ctx, keyword, s.maxPages)
		switch {
		case err != nil && len(vs) == 0:
			s.printf("Fetch failed: %v\n", err)
			continue
		case err != nil:
			s.printf("Fetch stopped early: %v\n", err)
		}

		if len(vs) == 0 {
			s.println("No vacancies found for your query, try again")
			continue
		}

		s.println()
		s.printf("Vacancies loaded: %d", len(vs))
		if report.Skipped > 0 {
			s.printf(" (skipped: %d)", report.Skipped)
		}
		s.println()
		s.println()

		return s.collectionFlow(ctx, vs)
	}
}

// filesFlow показывает файлы каталога и предлагает загрузить или очистить один из них.
func (s *Shell) filesFlow(ctx context.Context) error {
	for {
		infos, err := s.files.List(ctx)
		if err != nil {
			s.printf("The directory is not available: %v\n\n", err)
			return nil
		}

		s.printf("Directory %s contains %d file(s):\n", s.files.Dir(), len(infos))

		var usable []string
		for _, fi := range infos {
			if !fi.Usable() {
				s.printf("%s - no vacancy data or unsupported format\n", fi.Name)
				continue
			}
			s.printf("%s - %d vacancies\n", fi.Name, fi.Count)
			usable = append(usable, fi.Name)
		}

		if len(usable) == 0 {
			s.println("No files available")
			s.println()
			return nil
		}

		s.println("The following files are available:")
		for i, name := range usable {
			s.printf("%d. %s\n", i+1, name)
		}

		name, err := s.choose("Enter a file name to load: ", "Unknown file name, try again: ", usable...)
		if err != nil {
			return err
		}

		cleared, err := s.fileFlow(ctx, name)
		if err != nil || !cleared {
			return err
		}
	}
}

// fileFlow — подменю файла. cleared=true возвращает к списку файлов.
func (s *Shell) fileFlow(ctx context.Context, name string) (cleared bool, err error) {
	st, err := s.files.OpenExisting(name)
	if err != nil {
		s.printf("Cannot open %s: %v\n", name, err)
		return true, nil
	}

	s.println("Choose an action for the file:")
	s.println("1. Load all vacancies from the file")
	s.println("2. Clear the file")

	choice, err := s.choose("Enter 1 or 2: ", "", "1", "2")
	if err != nil {
		return false, err
	}

	if choice == "2" {
		if err := s.svc.Clear(ctx, st); err != nil {
			s.printf("Clear failed: %v\n", err)
			return true, nil
		}
		s.println("File cleared")
		return true, nil
	}

	vs, report, err := s.svc.Load(ctx, st)
	if err != nil {
		s.printf("Load failed: %v\n", err)
		return true, nil
	}

	s.printf("Vacancies loaded: %d", len(vs))
	if report.Skipped > 0 {
		s.printf(" (skipped: %d)", report.Skipped)
	}
	s.println()

	return false, s.collectionFlow(ctx, vs)
}

// collectionFlow — подменю коллекции; возвращается только выходом или ошибкой ввода.
func (s *Shell) collectionFlow(ctx context.Context, vs []models.Vacancy) error {
	for {
		s.println("Choose an action for the vacancies:")
		s.println("1. Save to a file")
		s.println("2. Keep the top vacancies by salary")
		s.println("3. Filter vacancies by keywords")
		s.println("4. Print short info")
		s.println("5. Exit")

		choice, err := s.choose("Enter a number from 1 to 5: ", "Please enter an integer from 1 to 5: ",
			"1", "2", "3", "4", "5")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := s.save(ctx, vs); err != nil {
				return err
			}
		case "2":
			n, err := s.positiveInt("Enter how many vacancies to keep: ")
			if err != nil {
				return err
			}
			top, err := s.svc.Top(vs, n)
			if err != nil {
				s.printf("Top failed: %v\n", err)
				continue
			}
			vs = top
		case "3":
			line, err := s.prompt("Enter keywords separated by spaces: ")
			if err != nil {
				return err
			}
			filtered := s.svc.Filter(vs, line)
			if len(filtered) == 0 {
				s.println("Nothing found for your query, try again")
				continue
			}
			vs = filtered
		case "4":
			for _, v := range vs {
				s.println(Summary(v))
			}
			s.println()
		case "5":
			return errQuit
		}
	}
}

// save дописывает коллекцию в файл каталога без дубликатов.
// Имя без расширения получает .json; .xlsx сохраняется в Excel.
func (s *Shell) save(ctx context.Context, vs []models.Vacancy) error {
	for {
		name, err := s.prompt(fmt.Sprintf("Enter a file name to save (default: %s): ", s.defaultFile))
		if err != nil {
			return err
		}
		if name == "" {
			name = s.defaultFile
		}

		if filepath.Base(name) != name || strings.HasPrefix(name, ".") {
			s.println("The file name must not contain a path")
			continue
		}

		if ext := filepath.Ext(name); ext != jsonfile.Ext && ext != xlsx.Ext {
			name = jsonfile.WithExt(name)
		}

		st, err := s.files.Open(name)
		if err != nil {
			s.printf("Cannot open %s: %v\n", name, err)
			continue
		}

		if err := s.svc.Save(ctx, st, vs); err != nil {
			s.printf("Save failed: %v\n", err)
			return nil
		}

		s.printf("Data saved to %s\n", name)
		return nil
	}
}

// positiveInt спрашивает целое > 0, пока не получит его.
func (s *Shell) positiveInt(label string) (int, error) {
	for {
		line, err := s.prompt(label)
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			s.println("Please enter an integer")
			continue
		}
		if n <= 0 {
			s.println("The number must be greater than 0, try again")
			continue
		}

		return n, nil
	}
}

// choose повторяет вопрос, пока ответ не окажется среди options.
// retry — текст повторного вопроса; пустой означает тот же label.
func (s *Shell) choose(label, retry string, options ...string) (string, error) {
	if retry == "" {
		retry = label
	}

	line, err := s.prompt(label)
	for err == nil && !slices.Contains(options, line) {
		line, err = s.prompt(retry)
	}

	return line, err
}

// prompt печатает label и читает строку без пробелов по краям.
// Конец ввода — io.EOF.
func (s *Shell) prompt(label string) (string, error) {
	s.printf("%s", label)

	if !s.in.Scan() {
		s.println()
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(args ...any) {
	_, _ = fmt.Fprintln(s.out, args...)
}

// Summary — однострочное описание вакансии: id, название, зарплата, город, ссылка.
func Summary(v models.Vacancy) string {
	var b strings.Builder

	if v.ID != nil {
		fmt.Fprintf(&b, "#%d ", *v.ID)
	}
	b.WriteString(orDash(v.Name))

	fmt.Fprintf(&b, " | %s | %s | %s", orDash(v.SalaryString), orDash(v.Location), orDash(v.URL))

	if v.Employer != nil {
		fmt.Fprintf(&b, " | %s", *v.Employer)
	}

	return b.String()
}

func orDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}
