// Package knowledge loads and exposes the course catalog that grounds
// agent responses. The catalog is read once at startup from a YAML file
// and is read-only afterwards.
package knowledge

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sweetpotato0/edubot/errors"
)

// Course is a single record of the catalog.
type Course struct {
	Name           string `yaml:"name"`
	Format         string `yaml:"format"`
	CostSoles      string `yaml:"cost_soles"`
	Objective      string `yaml:"objective"`
	EnrollmentLink string `yaml:"enrollment_link"`
}

// catalogFile is the on-disk layout of the catalog.
type catalogFile struct {
	Courses []Course          `yaml:"courses"`
	Aliases map[string]string `yaml:"aliases"`
}

// Catalog holds the loaded course table and the alias table used by the
// context tracker.
type Catalog struct {
	courses []Course
	aliases map[string]string
	byName  map[string]int
}

// DefaultAliases maps short keywords to canonical course names; used when
// the catalog file does not declare its own alias table.
func DefaultAliases() map[string]string {
	return map[string]string{
		"Data Mining": "Data Mining y Análisis de Datos",
		"SQL":         "Gestión de Bases de Datos con SQL",
		"Power BI":    "Power BI para la Gestión de Datos (Grupo 1)",
	}
}

// Load reads and validates the catalog from a YAML file. A missing or
// malformed file is fatal: the assistant cannot ground responses without
// the catalog.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return New(file.Courses, file.Aliases)
}

// New builds a catalog from in-memory records, validating them.
func New(courses []Course, aliases map[string]string) (*Catalog, error) {
	if len(courses) == 0 {
		return nil, fmt.Errorf("catalog has no courses: %w", errors.ErrInvalidInput)
	}

	byName := make(map[string]int, len(courses))
	for i, course := range courses {
		if course.Name == "" {
			return nil, fmt.Errorf("catalog course %d has no name: %w", i, errors.ErrInvalidInput)
		}
		if _, dup := byName[course.Name]; dup {
			return nil, fmt.Errorf("catalog course %q: %w", course.Name, errors.ErrAlreadyExists)
		}
		byName[course.Name] = i
	}

	if aliases == nil {
		aliases = DefaultAliases()
	}
	for alias, target := range aliases {
		if _, ok := byName[target]; !ok {
			return nil, fmt.Errorf("alias %q points to unknown course %q: %w", alias, target, errors.ErrNotFound)
		}
	}

	return &Catalog{
		courses: append([]Course(nil), courses...),
		aliases: aliases,
		byName:  byName,
	}, nil
}

// Courses returns all course records.
func (c *Catalog) Courses() []Course {
	return append([]Course(nil), c.courses...)
}

// Names returns the canonical course names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.courses))
	for _, course := range c.courses {
		names = append(names, course.Name)
	}
	return names
}

// Aliases returns the alias table for the context tracker.
func (c *Catalog) Aliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// Get returns the course with the exact canonical name.
func (c *Catalog) Get(name string) (Course, error) {
	if i, ok := c.byName[name]; ok {
		return c.courses[i], nil
	}
	return Course{}, fmt.Errorf("course %q: %w", name, errors.ErrNotFound)
}

// Search returns courses whose name or objective contains the query,
// case-insensitive.
func (c *Catalog) Search(query string) []Course {
	q := strings.ToLower(query)
	var out []Course
	for _, course := range c.courses {
		if strings.Contains(strings.ToLower(course.Name), q) ||
			strings.Contains(strings.ToLower(course.Objective), q) {
			out = append(out, course)
		}
	}
	return out
}

// ByFormat returns all courses with the exact format.
func (c *Catalog) ByFormat(format string) []Course {
	var out []Course
	for _, course := range c.courses {
		if course.Format == format {
			out = append(out, course)
		}
	}
	return out
}

// ByPriceRange returns courses whose cost falls within [min, max] soles.
// Courses with an unparseable cost are skipped.
func (c *Catalog) ByPriceRange(min, max float64) []Course {
	var out []Course
	for _, course := range c.courses {
		price, err := parsePrice(course.CostSoles)
		if err != nil {
			continue
		}
		if price >= min && price <= max {
			out = append(out, course)
		}
	}
	return out
}

// parsePrice accepts "350", "S/ 350" and "S/350.50".
func parsePrice(cost string) (float64, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cost), "S/"))
	return strconv.ParseFloat(s, 64)
}

// Snippet renders the catalog as the labeled blocks injected into prompts.
func (c *Catalog) Snippet() string {
	blocks := make([]string, 0, len(c.courses))
	for _, course := range c.courses {
		blocks = append(blocks, fmt.Sprintf(
			"Curso: %s\nFormato: %s\nCosto: %s soles\nObjetivo: %s\nLink: %s\n",
			course.Name, course.Format, course.CostSoles, course.Objective, course.EnrollmentLink))
	}
	return strings.Join(blocks, "\n")
}
