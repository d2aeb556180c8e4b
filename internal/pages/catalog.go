// Package pages holds the static content of the site and renders it, and
// the dynamic views, to the terminal.
package pages

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/router"
)

//go:embed catalog.yaml
var catalogYAML []byte

// StaticViews are the views whose content comes from the catalog.
var StaticViews = []router.View{
	router.ViewStandard, router.ViewInvestor, router.ViewValueProposition,
	router.ViewProclamations, router.ViewRegulations, router.ViewDirectives,
	router.ViewAnnualExecutive, router.ViewMediaGallery, router.ViewInvestments,
	router.ViewInvestmentPortal,
}

type Page struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Slide struct {
	Title  string `yaml:"title"`
	Action string `yaml:"action"`
}

type Message struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type Catalog struct {
	Slides   []Slide              `yaml:"slides"`
	Messages []Message            `yaml:"messages"`
	About    string               `yaml:"about"`
	Contact  string               `yaml:"contact"`
	Pages    map[router.View]Page `yaml:"pages"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog and checks that every static view has a page.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse page catalog: %w", err)
	}
	for _, v := range StaticViews {
		if p, ok := c.Pages[v]; !ok || p.Title == "" {
			return nil, fmt.Errorf("page catalog: no page for %q", v)
		}
	}
	return &c, nil
}

// Page returns the static page for v.
func (c *Catalog) Page(v router.View) (Page, bool) {
	p, ok := c.Pages[v]
	return p, ok
}
