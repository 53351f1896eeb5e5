package echoapi

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/contribution"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// formFile opens the multipart file of field. A nil file (and a no-op close) is returned when none was sent.
func formFile(ctx echo.Context, field string) (*contribution.File, func(), error) {
	noop := func() {}
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, errors.Wrapf(err, "reading %q form file", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, errors.Wrapf(err, "opening %q form file", field)
	}
	file := &contribution.File{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Content:     f,
	}
	return file, func() { _ = f.Close() }, nil
}

// formFileBytes reads the whole multipart file of field, nil when none was sent.
func formFileBytes(ctx echo.Context, field string) ([]byte, string, error) {
	file, closeFile, err := formFile(ctx, field)
	if err != nil || file == nil {
		return nil, "", err
	}
	defer closeFile()

	data, err := io.ReadAll(file.Content)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading %q form file", field)
	}
	return data, file.Filename, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
