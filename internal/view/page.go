package view

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ContainerID is the id of the element that receives the task rows.
const ContainerID = "taskTableBody"

var ErrContainerNotFound = errors.New("task table container not found")

// Page is a parsed HTML document holding the task table container.
// It is safe for concurrent use.
type Page struct {
	mu  sync.RWMutex
	doc *goquery.Document
}

// NewPage parses an HTML document from the reader.
func NewPage(in io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(in)
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	return &Page{doc: doc}, nil
}

// NewDefaultPage parses the built-in board page.
func NewDefaultPage() (*Page, error) {
	raw, err := templatesFS.ReadFile("templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in page: %w", err)
	}

	return NewPage(bytes.NewReader(raw))
}

func (p *Page) container() *goquery.Selection {
	return p.doc.Find("#" + ContainerID)
}

// HasContainer reports whether the document holds the task table container.
func (p *Page) HasContainer() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.container().Length() > 0
}

// ReplaceContainer sets rowsHTML as the sole content of the container.
func (p *Page) ReplaceContainer(rowsHTML string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel := p.container()
	if sel.Length() == 0 {
		return ErrContainerNotFound
	}
	sel.First().SetHtml(rowsHTML)

	return nil
}

// HTML serialises the whole document.
func (p *Page) HTML() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out, err := p.doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialise page: %w", err)
	}

	return out, nil
}

// Rows returns the text of every cell of every row in the container.
func (p *Page) Rows() [][]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var rows [][]string
	p.container().First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		rows = append(rows, cells)
	})

	return rows
}
