// Package export renders tabular record listings as PDF or Excel documents.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Format is an output document format.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts the format segment of an export URL.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatExcel, "xlsx":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "pdf"
}

func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Table is the format independent content of an export.
type Table struct {
	Title       string
	GeneratedAt time.Time
	Headers     []string
	Rows        [][]string
}

// Document is a rendered export.
type Document struct {
	Format   Format
	Filename string
	Data     []byte
}

// Render produces the document for t in format f.
func Render(t Table, f Format, basename string) (*Document, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatPDF:
		data, err = RenderPDF(t)
	case FormatExcel:
		data, err = RenderExcel(t)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return &Document{
		Format:   f,
		Filename: basename + "." + f.Extension(),
		Data:     data,
	}, nil
}
